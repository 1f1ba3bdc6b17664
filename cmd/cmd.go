package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nrich-sunny/merchantpoint/cmd/crawl"
	"github.com/Nrich-sunny/merchantpoint/version"
	"github.com/spf13/cobra"
)

var flags crawl.Flags

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl merchants from merchantpoint.ru.",
	Long:  "crawl brand listing, brand and merchant pages and write merchant records to a CSV or XLSX file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags.ConfigRequired = cmd.Flags().Changed("config")
		flags.MaxItemsSet = cmd.Flags().Changed("max-items")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return crawl.Run(ctx, flags)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

func Execute() {
	var rootCmd = &cobra.Command{
		Use:          "merchantpoint",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(crawlCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	crawlCmd.Flags().StringVar(&flags.ConfigPath, "config", crawl.DefaultConfigPath, "set config file")
	crawlCmd.Flags().StringVar(&flags.URL, "url", "", "set start URL")
	crawlCmd.Flags().IntVar(&flags.MaxItems, "max-items", 0, "set maximum number of records, 0 for no limit")
	crawlCmd.Flags().StringVar(&flags.Output, "output", "", "set output file")
	crawlCmd.Flags().StringVar(&flags.Format, "format", "", "set output format: csv or xlsx")
}
