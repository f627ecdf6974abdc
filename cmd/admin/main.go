package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"paynex/internal/domain/account"
	"paynex/internal/domain/bank"
	"paynex/internal/infrastructure/crypto"
	"paynex/internal/infrastructure/firebase"
	"paynex/internal/infrastructure/plaid"
	"paynex/internal/infrastructure/postgres"
	"paynex/internal/infrastructure/redis"
	"paynex/internal/interfaces/worker"
	"paynex/internal/shared/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "paynex-admin",
		Short:        "Paynex Admin CLI - Management commands for the Paynex API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for the operation (e.g., 30s, 5m)")

	rootCmd.AddCommand(shareableIDCmd())
	rootCmd.AddCommand(banksCmd())
	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext applies the --timeout flag.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func loadEncryptor() (*crypto.Encryptor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return crypto.NewEncryptor(cfg.Encryption.Key)
}

func shareableIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shareable-id",
		Short: "Convert between account ids and shareable ids",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode [account-id]",
		Short: "Print the shareable id of an account id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := loadEncryptor()
			if err != nil {
				return err
			}
			id, err := enc.Encrypt(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode [shareable-id]",
		Short: "Print the account id behind a shareable id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := loadEncryptor()
			if err != nil {
				return err
			}
			id, err := enc.Decrypt(args[0])
			if err != nil {
				return fmt.Errorf("invalid shareable id: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	return cmd
}

func banksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "Inspect linked bank accounts",
	}

	list := &cobra.Command{
		Use:     "list",
		Short:   "List the banks linked by a user",
		Example: `  paynex-admin banks list --user-id=2f6c1f0e-3a5b-4a59-9a4e-0c2d6f1b7d11`,
		RunE:    runBanksList,
	}
	list.Flags().String("user-id", "", "Owner of the banks (required)")
	list.MarkFlagRequired("user-id")

	cmd.AddCommand(list)
	return cmd
}

func runBanksList(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user-id")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	enc, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	app, err := firebase.NewApp(ctx, cfg.Firebase)
	if err != nil {
		return err
	}
	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return err
	}
	defer fs.Close()

	banks, err := firebase.NewBankRepository(fs, cfg.Firebase.BankCollection, enc).ListByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(banks) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No banks linked for user %s\n", userID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tSHAREABLE ID\tLINKED")
	for _, b := range banks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.AccountID, b.ShareableID, b.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage cached dashboard data",
	}

	warm := &cobra.Command{
		Use:   "warm",
		Short: "Reload the cached dashboards of users from the aggregation provider",
		Example: `  # Warm one user
  paynex-admin accounts warm --user-id=u1

  # Warm several users with more concurrency
  paynex-admin accounts warm --user-id=u1,u2,u3 --workers=8 --timeout=5m`,
		RunE: runAccountsWarm,
	}
	warm.Flags().String("user-id", "", "User ID(s) to warm (comma-separated for multiple)")
	warm.Flags().Int("workers", 4, "Number of concurrent workers")
	warm.Flags().Duration("delay", 0, "Pause between two jobs of one worker")
	warm.MarkFlagRequired("user-id")

	cmd.AddCommand(warm)
	return cmd
}

func runAccountsWarm(cmd *cobra.Command, args []string) error {
	userIDs := splitIDs(cmd.Flag("user-id").Value.String())
	if len(userIDs) == 0 {
		return fmt.Errorf("no user ids given")
	}
	workers, _ := cmd.Flags().GetInt("workers")
	delay, _ := cmd.Flags().GetDuration("delay")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	enc, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	app, err := firebase.NewApp(ctx, cfg.Firebase)
	if err != nil {
		return err
	}
	fs, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return err
	}
	defer fs.Close()

	plaidClient, err := plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Env)
	if err != nil {
		return err
	}

	// Read-only use: no payments client, invalidator or notifier needed.
	banks := bank.NewService(
		firebase.NewBankRepository(fs, cfg.Firebase.BankCollection, enc),
		plaidClient, nil, enc, nil, nil, bank.LinkConfig{},
	)
	summaries := redis.NewViewCache[account.Summary](rdb, "accounts", cfg.Cache.AccountsTTL)
	accounts := account.NewService(banks, plaidClient, firebase.NewTransferRepository(fs, cfg.Firebase.TransferCollection), summaries)
	accounts.SetCountryCodes(cfg.Plaid.CountryCodes)

	jobs := make([]worker.Job, 0, len(userIDs))
	for _, id := range userIDs {
		jobs = append(jobs, worker.NewDashboardWarmJob(id, accounts))
	}

	report := worker.NewPool(workers, delay).Run(ctx, jobs)

	fmt.Fprintf(cmd.OutOrStdout(), "Warmed %d/%d dashboards\n", report.Succeeded, len(jobs))
	for idx, err := range report.Failed {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", jobs[idx].UserID(), err)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d dashboards failed", len(report.Failed))
	}
	return nil
}

// splitIDs parses a comma-separated id list, dropping blanks and repeats.
func splitIDs(s string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the credential store tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			db, err := postgres.New(ctx, cfg.Database.ConnectionString(), 10*time.Second)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewCredentialRepository(db).EnsureSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credential store is up to date")
			return nil
		},
	}
}
