package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/config"
	logx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "parts-assistant",
	Short: "Refrigerator and dishwasher parts assistant",
	Long: `Parts Assistant answers part lookup, compatibility, installation,
troubleshooting and order-support questions for refrigerators and
dishwashers through contract-checked tools.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		configx.SetEnvPath(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return fmt.Errorf("load log config: %w", err)
		}
		logx.Init(*logCfg)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")
}
