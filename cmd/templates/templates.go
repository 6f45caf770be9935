// Package templates handles template library inspection commands.
package templates

import (
	"fmt"

	"github.com/spf13/cobra"

	"momo-etl/cmd/root"
	"momo-etl/internal/template"
)

// Cmd represents the templates command.
var Cmd = &cobra.Command{
	Use:   "templates",
	Short: "List the loaded template library",
	Long: `List the templates of the loaded library in match priority order.
Use the export subcommand to write the built-in definitions to a YAML file
as a starting point for customization.`,
	Run: listFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in template definitions to a YAML file",
	Run:   exportFunc,
}

func init() {
	Cmd.AddCommand(exportCmd)
}

func listFunc(cmd *cobra.Command, args []string) {
	if root.AppContainer == nil {
		root.Log.Fatal("Container not initialized")
	}

	library := root.AppContainer.GetLibrary()
	for i, name := range library.Names() {
		fmt.Printf("%3d  %s\n", i+1, name)
	}
	root.Log.Infof("%d templates loaded", library.Len())
}

func exportFunc(cmd *cobra.Command, args []string) {
	if root.AppContainer == nil {
		root.Log.Fatal("Container not initialized")
	}

	path := root.SharedFlags.Output
	if path == "" {
		path = "templates.yaml"
	}

	templateStore := root.AppContainer.GetTemplateStore()
	if err := templateStore.SaveDefinitions(template.DefaultDefinitions(), path); err != nil {
		root.Log.Fatalf("Error exporting templates: %v", err)
	}
	root.Log.Infof("Built-in templates written to %s", path)
}
