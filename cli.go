package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newResolveCommand() *cobra.Command {
	var (
		email  string
		output string
		view   string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a user's email against the provider and print the result",
		Example: `  # Print the identity bundle of a learner
  dashboard resolve --email learner@example.com

  # Print their competencies as YAML
  dashboard resolve --email learner@example.com --view competencies --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			var result any
			switch view {
			case "identity":
				result, _, err = a.identity.Resolve(cmd.Context(), email)
			case "competencies":
				result, _, err = a.competencies.Competencies(cmd.Context(), email)
			case "progress":
				result, err = a.metrics.Progress(cmd.Context(), email)
			default:
				return fmt.Errorf("unknown view %q (want identity, competencies or progress)", view)
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), output, result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Learner email (required)")
	cmd.Flags().StringVar(&output, "output", "json", "Output format (json, yaml)")
	cmd.Flags().StringVar(&view, "view", "identity", "What to print (identity, competencies, progress)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newClearCacheCommand() *cobra.Command {
	var (
		email    string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete cached responses of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.cacheAdmin.Clear(cmd.Context(), email, endpoint)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), "json", result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Single endpoint to clear (default: get-adf and adf-competencies)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// printResult writes v to w as indented JSON or YAML.
func printResult(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// go through JSON so field names follow the json tags
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
