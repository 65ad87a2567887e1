package main

import (
	"fmt"
	"slices"

	"github.com/deppfellow/robotics-club/internal/lib/email"
	"github.com/spf13/cobra"
)

var previewEmailCmd = &cobra.Command{
	Use:       "preview-email <template>",
	Short:     "Render an email template with sample data to stdout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: templateNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := email.Template(args[0])
		data, ok := email.PreviewData[name]
		if !ok {
			return fmt.Errorf("unknown template %q, want one of %v", args[0], templateNames())
		}

		html, err := email.Render(name, data)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	},
}

func templateNames() []string {
	names := make([]string, 0, len(email.PreviewData))
	for name := range email.PreviewData {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}
