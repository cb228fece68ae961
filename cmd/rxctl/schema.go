package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"example.com/exerciserx/internal/feedback"
	"example.com/exerciserx/internal/prescription"
)

var schemaDocuments = map[string]func() *jsonschema.Schema{
	"assessment": reflectSchema[prescription.Assessment],
	"feedback":   reflectSchema[feedback.SessionFeedback],
}

func reflectSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(v)
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema assessment|feedback",
		Short:     "Print the JSON schema of an input document",
		Long:      `Prints the JSON schema accepted by the prescribe command and the feedback endpoint.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"assessment", "feedback"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reflect, ok := schemaDocuments[args[0]]
			if !ok {
				return fmt.Errorf("unknown document %q (want assessment or feedback)", args[0])
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reflect())
		},
	}
}
