package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"example.com/exerciserx/internal/app"
	"example.com/exerciserx/internal/prescription"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rxctl",
		Short:         "Exercise prescription tooling",
		Long:          `Generates exercise prescriptions from assessment files and inspects exercise catalogs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPrescribeCmd(), newCatalogCmd(), newValidateCatalogCmd(), newSchemaCmd())
	return root
}

func newPrescribeCmd() *cobra.Command {
	var file, catalogPath string
	cmd := &cobra.Command{
		Use:   "prescribe --file assessment.json",
		Short: "Generate a prescription from an assessment",
		Long:  `Reads an assessment as JSON (use "-" for stdin) and prints the prescription as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			var assessment prescription.Assessment
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&assessment); err != nil {
				return fmt.Errorf("parse assessment: %w", err)
			}

			c, err := app.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			engine, err := prescription.NewEngine(c)
			if err != nil {
				return err
			}
			rx, err := engine.Generate(assessment)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rx)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "assessment JSON file, or - for stdin")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (defaults to the embedded catalog)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var catalogPath, output string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the exercise catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(c); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			default:
				return fmt.Errorf("unknown output format %q (want yaml or json)", output)
			}
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file (defaults to the embedded catalog)")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}

func newValidateCatalogCmd() *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "validate-catalog --catalog path",
		Short: "Check a catalog file for integrity errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d aerobic, %d resistance, %d balance, %d flexibility exercises\n",
				len(c.Aerobic), len(c.Resistance), len(c.Balance), len(c.Flexibility))
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assessment: %w", err)
	}
	return data, nil
}
