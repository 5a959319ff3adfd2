package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/infra/logger"
	"github.com/kilianp07/robocmd/infra/mqtt"
)

var modeCmd = &cobra.Command{
	Use:       "mode <operator|autonomous>",
	Short:     "Request a control mode switch",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"operator", "autonomous"},
	RunE:      requestMode,
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

func requestMode(cmd *cobra.Command, args []string) error {
	m, err := model.ParseMode(args[0])
	if err != nil {
		return err
	}
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Disconnect()

	if err := mqtt.PublishMode(client, m); err != nil {
		return fmt.Errorf("publish mode: %w", err)
	}
	logger.New("mode-command").Infof("requested %s mode on %s", m, client.Config().ModeTopic)
	return nil
}
