package cli

import (
	"fmt"

	"example/seo-score-api/app/models"

	"github.com/spf13/cobra"
)

const manualEventID = "seoctl"

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Inspect or change a user's plan",
	}

	get := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Print a user's plan and usage, creating the free record if missing",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubscriptionGet,
	}

	upgrade := &cobra.Command{
		Use:   "upgrade <user-id>",
		Short: "Move a user to Pro as if checkout had completed",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubscriptionUpgrade,
	}
	upgrade.Flags().String("subscription-id", "", "Stripe subscription id to attach")
	upgrade.Flags().String("customer-id", "", "Stripe customer id, kept only if none is stored")
	_ = upgrade.MarkFlagRequired("subscription-id")

	downgrade := &cobra.Command{
		Use:   "downgrade <subscription-id>",
		Short: "Return the owner of a Stripe subscription to the free plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubscriptionDowngrade,
	}

	cmd.AddCommand(get, upgrade, downgrade)
	return cmd
}

func runSubscriptionGet(cmd *cobra.Command, args []string) error {
	l, st, err := openLedger(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	sub := l.GetOrCreate(cmd.Context(), args[0])
	return printJSON(cmd, sub.View())
}

func runSubscriptionUpgrade(cmd *cobra.Command, args []string) error {
	l, st, err := openLedger(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	subscriptionID, _ := cmd.Flags().GetString("subscription-id")
	customerID, _ := cmd.Flags().GetString("customer-id")
	err = l.ApplyBillingEvent(cmd.Context(), models.BillingEvent{
		ID:             manualEventID,
		Type:           models.EventCheckoutCompleted,
		UserID:         args[0],
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		return fmt.Errorf("upgrade %s: %w", args[0], err)
	}

	sub := l.GetOrCreate(cmd.Context(), args[0])
	return printJSON(cmd, sub.View())
}

func runSubscriptionDowngrade(cmd *cobra.Command, args []string) error {
	l, st, err := openLedger(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	err = l.ApplyBillingEvent(cmd.Context(), models.BillingEvent{
		ID:             manualEventID,
		Type:           models.EventSubscriptionDeleted,
		SubscriptionID: args[0],
	})
	if err != nil {
		return fmt.Errorf("downgrade %s: %w", args[0], err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subscription %s downgraded\n", args[0])
	return nil
}
