package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/foomo/dxtree/pkg/handler"
	"github.com/foomo/dxtree/pkg/repo"
	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	v := newViper()
	service.DefaultHTTPPProfAddr = ":6060"

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start http server with the folder browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			tokenSource, err := newTokenSource(v)
			if err != nil {
				return err
			}

			collector, err := newCollector(l, v)
			if err != nil {
				return err
			}

			storage, err := createStorage(cmd.Context(), v, l)
			if err != nil {
				return fmt.Errorf("failed to create storage: %w", err)
			}

			history, err := repo.NewHistory(l.Named("inst.history"),
				repo.HistoryWithStorage(storage),
				repo.HistoryWithHistoryDir(historyDirFlag(v)),
				repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
			)
			if err != nil {
				return fmt.Errorf("failed to create history: %w", err)
			}

			r := repo.New(l.Named("inst.repo"),
				collector,
				tokenSource,
				history,
				repo.WithPollInterval(pollIntervalFlag(v)),
				repo.WithPoll(pollFlag(v)),
			)

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !r.Loaded() {
					return errors.New("hierarchy not loaded yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				return history.Close()
			})

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.repo"), "repo", func(ctx context.Context, l *zap.Logger) error {
					return r.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					withCORS(l, corsOriginsFlag(v),
						handler.NewHTTP(l.Named("inst.handler"), r, handler.WithBasePath(basePathFlag(v))),
					),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addDataExchangeFlags(flags, v)
	addAddressFlag(flags, v)
	addBasePathFlag(flags, v)
	addCORSOriginsFlag(flags, v)
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addGzipLevelFlag(flags, v)

	return cmd
}

// withCORS allows the folder browser to be embedded by other origins
func withCORS(l *zap.Logger, origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}
	l.Info("cors enabled", zap.Strings("origins", origins))
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(next)
}

// supportedBlobSchemes lists the URL schemes supported by blob storage
var supportedBlobSchemes = []string{"gs://"}

// createStorage creates a storage backend based on the configuration
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (repo.Storage, error) {
	storageType := storageTypeFlag(v)
	blobBucket := storageBlobBucketFlag(v)
	blobPrefix := storageBlobPrefixFlag(v)

	if storageType != "blob" && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	switch storageType {
	case "blob":
		if blobBucket == "" {
			return nil, fmt.Errorf("blob bucket URL is required when storage-type is 'blob' (supported schemes: %s)", strings.Join(supportedBlobSchemes, ", "))
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, fmt.Errorf("unsupported blob storage URL scheme in %q; supported schemes: %s", blobBucket, strings.Join(supportedBlobSchemes, ", "))
		}
		l.Info("using blob storage", zap.String("bucket", blobBucket), zap.String("prefix", blobPrefix))
		return repo.NewBlobStorage(ctx, blobBucket, blobPrefix)
	case "filesystem", "":
		dir := historyDirFlag(v)
		l.Info("using filesystem storage", zap.String("dir", dir))
		return repo.NewFilesystemStorage(dir)
	default:
		return nil, fmt.Errorf("unknown storage type: %s (supported: filesystem, blob)", storageType)
	}
}

func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}
