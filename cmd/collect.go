package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/foomo/dxtree/content"
	"github.com/foomo/dxtree/pkg/hierarchy"
	"github.com/foomo/dxtree/pkg/tree"
	"github.com/foomo/dxtree/pkg/view"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatHTML = "html"
	formatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewCollectCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect all hubs, projects and folder trees once",
		Example: `  dxtree collect --aps-token $TOKEN
  dxtree collect --tree-mode sequential -o hierarchy.html
  dxtree collect -q --format json -o hierarchy.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L()

			format := formatFlag(v)
			if format != formatHTML && format != formatJSON {
				return errors.Errorf("unknown format %q (supported: %s, %s)", format, formatHTML, formatJSON)
			}

			tokenSource, err := newTokenSource(v)
			if err != nil {
				return err
			}
			token, err := tokenSource.Token()
			if err != nil {
				return errors.Wrap(err, "failed to get access token")
			}

			var opts []hierarchy.Option
			if !quietFlag(v) {
				opts = append(opts, hierarchy.WithOnTree(printTree(cmd.OutOrStdout(), l)))
			}
			collector, err := newCollector(l, v, opts...)
			if err != nil {
				return err
			}

			h, report, err := collector.Collect(cmd.Context(), token.AccessToken)
			if err != nil {
				return err
			}
			logReport(l, report)

			counts := h.Count()
			l.Info("collected",
				zap.Int("hubs", counts.Hubs),
				zap.Int("projects", counts.Projects),
				zap.Int("folders", counts.Folders),
				zap.Int("items", counts.Items),
				zap.Int("exchanges", counts.Exchanges),
				zap.Int("skipped", report.Len()),
			)

			if output := outputFlag(v); output != "" {
				return writeOutput(output, format, h)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addDataExchangeFlags(flags, v)
	addOutputFlag(flags, v)
	addFormatFlag(flags, v)
	addQuietFlag(flags, v)

	return cmd
}

func printTree(w io.Writer, l *zap.Logger) hierarchy.TreeFunc {
	return func(hub content.Hub, project content.Project, root *content.FolderNode) {
		if _, err := fmt.Fprintf(w, "%s / %s\n", hub.Name, project.Name); err != nil {
			l.Warn("could not print tree", zap.Error(err))
			return
		}
		if err := content.PrintTree(w, root); err != nil {
			l.Warn("could not print tree", zap.Error(err))
		}
	}
}

func logReport(l *zap.Logger, report *tree.Report) {
	for _, s := range report.Skipped() {
		l.Warn("skipped branch",
			zap.String("kind", string(s.Kind)),
			zap.String("id", s.ID),
			zap.String("parent_id", s.ParentID),
			zap.Error(s.Err),
		)
	}
}

func writeOutput(filename, format string, h content.Hierarchy) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatJSON:
		data, err = json.MarshalIndent(content.SerializeHierarchy(h), "", "  ")
	default:
		data, err = view.RenderHierarchy(h)
	}
	if err != nil {
		return errors.Wrap(err, "failed to render hierarchy")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}
	zap.L().Info("wrote hierarchy", zap.String("file", filename), zap.String("format", format))
	return nil
}
