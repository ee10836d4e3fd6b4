package responses

// Stats of a collection run, counts are -1 when the run failed
type Stats struct {
	NumberOfHubs      int `json:"numberOfHubs"`
	NumberOfProjects  int `json:"numberOfProjects"`
	NumberOfFolders   int `json:"numberOfFolders"`
	NumberOfItems     int `json:"numberOfItems"`
	NumberOfExchanges int `json:"numberOfExchanges"`
	// branches dropped because their fetch failed
	NumberOfSkipped int `json:"numberOfSkipped"`
	// seconds
	CollectRuntime float64 `json:"collectRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
