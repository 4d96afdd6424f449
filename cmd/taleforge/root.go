package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/service/ui"
	"github.com/sandevgo/taleforge/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "taleforge",
	Short: "Taleforge: an interactive story narrator",
	Long:  `Taleforge turns player actions into story turns using a language model, with retries, fallbacks and a response cache.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, log.Options{Debug: debug || config.IsDebug()})
}

// setupStderrLogger keeps stdout free for protocols that own it.
func setupStderrLogger(ctx context.Context, w io.Writer) (context.Context, func()) {
	return log.NewContextWithLogger(ctx, log.Options{Debug: debug || config.IsDebug(), Output: w, JSON: true})
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
