package cli

import (
	"fmt"
	"strings"

	"github.com/JackVanta/VantaSDK/config"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/project"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"
)

var treeTemplate string

var treeCmd = &cobra.Command{
	Use:   "tree [dir|file.zip]",
	Short: "Show the file tree a directory, archive or template imports as",
	Long: `Show the project tree the builder derives from a directory or ZIP archive,
after the upload filters are applied. With --template, show a starter template instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			name string
			pf   models.ProjectFiles
			err  error
		)
		switch {
		case treeTemplate != "":
			tpl, lookupErr := project.LookupTemplate(treeTemplate)
			if lookupErr != nil {
				return lookupErr
			}
			name, pf = tpl.Name, tpl.ProjectFiles()
		case len(args) == 1:
			name = args[0]
			pf, err = loadProjectFiles(newCollector(config.AppConfig.Upload), args[0])
		default:
			name = "."
			pf, err = loadProjectFiles(newCollector(config.AppConfig.Upload), ".")
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTree(name, project.DeriveFileTree(pf), ""))
		fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render(fmt.Sprintf("%d files, entry: %s", len(pf), project.ResolveEntryFile(pf))))
		return nil
	},
}

// loadProjectFiles reads a directory, or a ZIP archive when src ends in .zip.
func loadProjectFiles(c *files.Collector, src string) (models.ProjectFiles, error) {
	if strings.HasSuffix(strings.ToLower(src), ".zip") {
		return c.FromZipFile(src)
	}
	return c.FromDir(src)
}

// renderTree draws the derived tree. The active path, if any, is highlighted.
func renderTree(root string, items []models.FileTreeItem, active string) string {
	t := tree.Root(folderStyle.Render(root)).
		Enumerator(tree.RoundedEnumerator)
	addTreeItems(t, items, active)
	return t.String()
}

func addTreeItems(t *tree.Tree, items []models.FileTreeItem, active string) {
	for _, item := range items {
		if item.Type == models.TreeItemFolder {
			sub := tree.Root(folderStyle.Render(item.Name + "/")).
				Enumerator(tree.RoundedEnumerator)
			addTreeItems(sub, item.Children, active)
			t.Child(sub)
			continue
		}
		if item.Path == active {
			t.Child(activeStyle.Render(item.Name + " *"))
			continue
		}
		t.Child(item.Name)
	}
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the starter templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range project.TemplateNames() {
			tpl, err := project.LookupTemplate(name)
			if err != nil {
				return err
			}
			marker := " "
			if name == project.DefaultTemplate {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", marker, tpl.Name, tpl.Description)
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVarP(&treeTemplate, "template", "t", "", "Show a starter template instead of a path")
}
