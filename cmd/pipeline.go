package cmd

import (
	"github.com/foomo/dxtree/pkg/dataexchange"
	"github.com/foomo/dxtree/pkg/graphql"
	"github.com/foomo/dxtree/pkg/hierarchy"
	"github.com/foomo/dxtree/pkg/tree"
	keelhttp "github.com/foomo/keel/net/http"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// newCollector wires graphql client, data exchange service and tree builder
func newCollector(l *zap.Logger, v *viper.Viper, opts ...hierarchy.Option) (*hierarchy.Collector, error) {
	mode, err := tree.ParseMode(treeModeFlag(v))
	if err != nil {
		return nil, err
	}

	client, err := graphql.New(l.Named("inst.graphql"), graphqlURLFlag(v),
		graphql.WithRegion(apsRegionFlag(v)),
		graphql.WithHTTPClient(
			keelhttp.NewHTTPClient(
				keelhttp.HTTPClientWithTimeout(requestTimeoutFlag(v)),
				keelhttp.HTTPClientWithTelemetry(),
			),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create graphql client")
	}

	service := dataexchange.NewService(l.Named("inst.dataexchange"), client)
	builder := tree.NewBuilder(l.Named("inst.tree"), service, tree.WithMode(mode))

	l.Info("data exchange pipeline",
		zap.String("url", graphqlURLFlag(v)),
		zap.String("region", apsRegionFlag(v)),
		zap.String("mode", string(mode)),
	)
	return hierarchy.New(l.Named("inst.hierarchy"), service, builder, opts...), nil
}

func newTokenSource(v *viper.Viper) (oauth2.TokenSource, error) {
	token := apsTokenFlag(v)
	if token == "" {
		return nil, errors.New("missing access token, set --aps-token or APS_TOKEN")
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}), nil
}
