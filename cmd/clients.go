package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/store"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage hiring clients and their evaluation preferences",
}

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a client",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		name, _ := cmd.Flags().GetString("name")
		preferences, _ := cmd.Flags().GetString("preferences")
		notes, _ := cmd.Flags().GetString("notes")

		if strings.TrimSpace(name) == "" {
			log.Fatal("client name is required")
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		client, err := db.SaveClient(ctx, strings.TrimSpace(name), preferences, notes)
		if err != nil {
			log.Fatal("saving client", zap.Error(err))
		}

		log.Info("client saved", zap.String("client_id", client.ID.String()))

		if err := printJSON(cmd.OutOrStdout(), client); err != nil {
			log.Fatal("writing client", zap.Error(err))
		}
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		clients, err := db.ListClients(ctx)
		if err != nil {
			log.Fatal("listing clients", zap.Error(err))
		}

		log.Debug("clients listed", zap.Int("count", len(clients)))

		if err := printJSON(cmd.OutOrStdout(), clients); err != nil {
			log.Fatal("writing clients", zap.Error(err))
		}
	},
}

var clientsGetCmd = &cobra.Command{
	Use:   "get CLIENT_ID",
	Short: "Print a client",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing client id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		client, err := db.GetClient(ctx, id)
		if err != nil {
			log.Fatal("getting client", zap.Error(err))
		}

		if err := printJSON(cmd.OutOrStdout(), client); err != nil {
			log.Fatal("writing client", zap.Error(err))
		}
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update CLIENT_ID",
	Short: "Change the fields of a client given as flags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing client id", zap.Error(err))
		}

		update, err := clientUpdateFromFlags(cmd)
		if err != nil {
			log.Fatal("parsing flags", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		client, err := db.UpdateClient(ctx, id, update)
		if err != nil {
			log.Fatal("updating client", zap.Error(err))
		}

		log.Info("client updated", zap.String("client_id", client.ID.String()))

		if err := printJSON(cmd.OutOrStdout(), client); err != nil {
			log.Fatal("writing client", zap.Error(err))
		}
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete CLIENT_ID",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := mustLogger()
		config := mustConfig(log)

		id, err := uuid.Parse(args[0])
		if err != nil {
			log.Fatal("parsing client id", zap.Error(err))
		}

		db, err := openStore(ctx, config.Database)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer db.Close()

		if err := db.DeleteClient(ctx, id); err != nil {
			log.Fatal("deleting client", zap.Error(err))
		}

		log.Info("client deleted", zap.String("client_id", id.String()))
	},
}

// clientUpdateFromFlags builds an update from the flags set on the command
// line. Unset flags stay nil; an explicit empty value clears the field.
func clientUpdateFromFlags(cmd *cobra.Command) (store.ClientUpdate, error) {
	var update store.ClientUpdate
	flags := cmd.Flags()

	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return update, errors.New("client name cannot be empty")
		}
		update.Name = &name
	}
	if flags.Changed("preferences") {
		preferences, _ := flags.GetString("preferences")
		update.EvaluationPreferences = &preferences
	}
	if flags.Changed("notes") {
		notes, _ := flags.GetString("notes")
		update.Notes = &notes
	}

	if update.Empty() {
		return update, errors.New("nothing to update: set --name, --preferences or --notes")
	}
	return update, nil
}

// clientGuidance loads the analyzer notes of a stored client. A nil ID gives
// no notes.
func clientGuidance(ctx context.Context, db *store.DB, id *uuid.UUID) (string, error) {
	if id == nil {
		return "", nil
	}
	client, err := db.GetClient(ctx, *id)
	if err != nil {
		return "", err
	}
	return client.Guidance(), nil
}

func addClientFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "client name")
	cmd.Flags().String("preferences", "", "evaluation preferences used as analyzer guidance")
	cmd.Flags().String("notes", "", "internal notes")
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsAddCmd, clientsListCmd, clientsGetCmd, clientsUpdateCmd, clientsDeleteCmd)

	addClientFieldFlags(clientsAddCmd)
	clientsAddCmd.MarkFlagRequired("name")

	addClientFieldFlags(clientsUpdateCmd)
}
