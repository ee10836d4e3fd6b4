package cmd

import (
	"time"

	"github.com/foomo/dxtree/pkg/dataexchange"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

// ------------------------------------------------------------------------------------------------
// ~ Data exchange
// ------------------------------------------------------------------------------------------------

func apsRegionFlag(v *viper.Viper) string {
	return v.GetString("aps.region")
}

func addAPSRegionFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("aps-region", "", "Value of the x-ads-region header, e.g. US or EMEA")
	_ = v.BindPFlag("aps.region", flags.Lookup("aps-region"))
	_ = v.BindEnv("aps.region", "APS_REGION")
}

func apsTokenFlag(v *viper.Viper) string {
	return v.GetString("aps.token")
}

func addAPSTokenFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("aps-token", "", "APS access token used as bearer token")
	_ = v.BindPFlag("aps.token", flags.Lookup("aps-token"))
	_ = v.BindEnv("aps.token", "APS_TOKEN")
}

func graphqlURLFlag(v *viper.Viper) string {
	return v.GetString("graphql.url")
}

func addGraphQLURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("graphql-url", dataexchange.DefaultURL, "Data exchange graphql endpoint")
	_ = v.BindPFlag("graphql.url", flags.Lookup("graphql-url"))
	_ = v.BindEnv("graphql.url", "DX_GRAPHQL_URL")
}

func treeModeFlag(v *viper.Viper) string {
	return v.GetString("tree.mode")
}

func addTreeModeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("tree-mode", string(tree.ModeConcurrent), "Folder expansion mode (sequential, concurrent)")
	_ = v.BindPFlag("tree.mode", flags.Lookup("tree-mode"))
	_ = v.BindEnv("tree.mode", "DX_TREE_MODE")
}

func requestTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("request.timeout")
}

func addRequestTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("request-timeout", 30*time.Second, "Timeout of a single graphql request, 0 disables it")
	_ = v.BindPFlag("request.timeout", flags.Lookup("request-timeout"))
	_ = v.BindEnv("request.timeout", "DX_REQUEST_TIMEOUT")
}

func addDataExchangeFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addAPSRegionFlag(flags, v)
	addAPSTokenFlag(flags, v)
	addGraphQLURLFlag(flags, v)
	addTreeModeFlag(flags, v)
	addRequestTimeoutFlag(flags, v)
}

// ------------------------------------------------------------------------------------------------
// ~ Collect
// ------------------------------------------------------------------------------------------------

func outputFlag(v *viper.Viper) string {
	return v.GetString("output")
}

func addOutputFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringP("output", "o", "", "Write the collected hierarchy to this file")
	_ = v.BindPFlag("output", flags.Lookup("output"))
}

func formatFlag(v *viper.Viper) string {
	return v.GetString("format")
}

func addFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("format", formatHTML, "Output file format (html, json)")
	_ = v.BindPFlag("format", flags.Lookup("format"))
}

func quietFlag(v *viper.Viper) bool {
	return v.GetBool("quiet")
}

func addQuietFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.BoolP("quiet", "q", false, "Do not print folder trees")
	_ = v.BindPFlag("quiet", flags.Lookup("quiet"))
}

// ------------------------------------------------------------------------------------------------
// ~ Serve
// ------------------------------------------------------------------------------------------------

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "DX_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/dxtree", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "DX_BASE_PATH")
}

func corsOriginsFlag(v *viper.Viper) []string {
	return v.GetStringSlice("cors.origins")
}

func addCORSOriginsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("cors-origins", nil, "Allowed CORS origins, empty disables CORS")
	_ = v.BindPFlag("cors.origins", flags.Lookup("cors-origins"))
	_ = v.BindEnv("cors.origins", "DX_CORS_ORIGINS")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the hierarchy is collected periodically")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "DX_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", 10*time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "DX_POLL_INTERVAL")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/dxtree", "Where to put hierarchy snapshots")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "DX_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of history records to keep")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "DX_HISTORY_LIMIT")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "filesystem", "Snapshot storage (filesystem, blob)")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "DX_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Blob bucket url, e.g. gs://bucket")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "DX_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix inside the blob bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "DX_STORAGE_BLOB_PREFIX")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before the server shuts down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "DX_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", 6, "Gzip compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "DX_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}
