package dataexchange

// DefaultURL data exchange graphql endpoint
const DefaultURL = "https://developer.api.autodesk.com/dataexchange/2023-05/graphql"

// Variable names used by the query documents
const (
	VariableHubID     = "hubId"
	VariableProjectID = "projectId"
	VariableFolderID  = "folderId"
)

const QueryGetHubs = `
query GetHubs {
  hubs { results { id name } }
}
`

const QueryGetProjects = `
query GetProjects($hubId: ID!) {
  projects(hubId: $hubId) { results { id name } }
}
`

const QueryGetTopFolders = `
query GetTopFolders($projectId: ID!) {
  project(projectId: $projectId) {
    folders { results { id name } }
  }
}
`

const fragmentFolderContents = `
fragment FolderContents on Folder {
  id
  name
  items { results { id name __typename } }
  exchanges { results { id name __typename } }
  folders { results { id name } }
}
`

const QueryGetFolderContent = `
query GetFolderContent($folderId: ID!) {
  folder(folderId: $folderId) { ...FolderContents }
}
` + fragmentFolderContents
