package main

import (
	"github.com/spf13/cobra"
)

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "Manage the notification queue",
}

var emailsLimit int

var emailsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		pending, err := env.Store.PendingEmails(ctx, emailsLimit)
		if err != nil {
			return err
		}

		cmd.Printf("%-36s  %-30s  %-8s  %s\n", "ID", "DESTINATAIRE", "ESSAIS", "CRÉÉ LE")
		for _, e := range pending {
			cmd.Printf("%-36s  %-30s  %-8d  %s\n", e.ID, e.Recipient, e.Attempts, e.CreatedAt.Format("02/01/2006 15:04"))
		}
		cmd.Printf("\n%d notification(s) en attente\n", len(pending))
		return nil
	},
}

var emailsProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Send pending notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, "emails")
		if err != nil {
			return err
		}
		defer env.Close()

		sent, err := env.Mailer.ProcessQueue(ctx, env.Store, emailsLimit)
		if err != nil {
			return err
		}
		cmd.Printf("%d notification(s) envoyée(s)\n", sent)
		return nil
	},
}

func init() {
	emailsCmd.PersistentFlags().IntVar(&emailsLimit, "limit", 50, "maximum queue entries to handle")
	emailsCmd.AddCommand(emailsListCmd, emailsProcessCmd)
	rootCmd.AddCommand(emailsCmd)
}
