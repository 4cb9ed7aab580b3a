package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/navikt/synthproof/pkg/commitment"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

type rootOptions struct {
	digest    string
	namespace string
	output    string
}

func (o *rootOptions) engine() (*commitment.Engine, error) {
	d, err := commitment.DigesterByName(o.digest)
	if err != nil {
		return nil, err
	}

	return commitment.New(
		commitment.WithDigester(d),
		commitment.WithNamespace(o.namespace),
	), nil
}

func (o *rootOptions) write(w io.Writer, v any) error {
	switch o.output {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	return fmt.Errorf("unknown output format %q", o.output)
}

func newRootCmd(log zerolog.Logger) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "synthctl",
		Short:         "Inspect datasets and produce verifiable synthetic replacements",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.digest, "digest", commitment.DigestRolling, "digest used for commitments (rolling, sha256, mimc)")
	cmd.PersistentFlags().StringVar(&opts.namespace, "namespace", commitment.DefaultNamespace, "commitment prefix namespace")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputYAML, "output format (yaml, json)")

	cmd.AddCommand(
		newInspectCmd(opts),
		newGenerateCmd(opts, log),
		newKeygenCmd(opts),
	)

	return cmd
}
