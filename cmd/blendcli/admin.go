package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/auth"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/logging"
	"github.com/ahmedha-data-analyst/water-blend-optimizer/internal/repo"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator administration against the DATABASE_URL instance",
	}
	cmd.AddCommand(grantPremiumCmd())
	cmd.AddCommand(revokePremiumCmd())
	return cmd
}

func grantPremiumCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "grant-premium <login>",
		Short: "Grant an operator premium access",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGrantPremium(args[0], days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "subscription length in days")
	return cmd
}

func revokePremiumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-premium <login>",
		Short: "Revoke an operator's premium access",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRevokePremium(args[0])
		},
	}
}

func openRepo() (*repo.PostgresOperatorRepository, func()) {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("LOG_LEVEL"), true)
	db := auth.InitDB(logger)
	return repo.NewPostgresOperatorDB(db), func() { db.Close() }
}

func findOperator(ctx context.Context, operators *repo.PostgresOperatorRepository, login string) (int, error) {
	id, _, err := operators.GetByLogin(ctx, login)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("operator %q not found", login)
	}
	return id, nil
}

func runGrantPremium(login string, days int) error {
	operators, closeDB := openRepo()
	defer closeDB()

	ctx := context.Background()
	id, err := findOperator(ctx, operators, login)
	if err != nil {
		return err
	}
	until := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	if err := operators.SetPremium(ctx, id, until); err != nil {
		return err
	}
	fmt.Printf("Premium granted to %s until %s\n", login, until.Format("2006-01-02"))
	return nil
}

func runRevokePremium(login string) error {
	operators, closeDB := openRepo()
	defer closeDB()

	ctx := context.Background()
	id, err := findOperator(ctx, operators, login)
	if err != nil {
		return err
	}
	if err := operators.ClearPremium(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Premium revoked for %s\n", login)
	return nil
}
