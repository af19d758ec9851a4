package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(unsealCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(transferCmd)

	convertCmd.Flags().StringVar(&convertOrigin, "origin", "", "Unit provenance (mining, rewards, p2p)")
	convertCmd.Flags().StringVar(&convertTarget, "target", "", "Conversion target (USDC, USDT, fiat)")
	transferCmd.Flags().StringVar(&transferOrigin, "origin", "", "Unit provenance (mining, rewards, p2p)")
	transferCmd.Flags().StringVar(&transferRecipient, "recipient", "", "Transfer recipient")
}

var (
	convertOrigin     string
	convertTarget     string
	transferOrigin    string
	transferRecipient string
)

var processCmd = &cobra.Command{
	Use:   "process <content> <amount>",
	Short: "Admit and seal one transfer request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse amount %q: %w", args[1], err)
		}
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.pipeline.Process(args[0], amount)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var sealCmd = &cobra.Command{
	Use:   "seal <content>",
	Short: "Admit content and print its sealed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		token, err := a.pipeline.SealOnly(args[0])
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var unsealCmd = &cobra.Command{
	Use:   "unseal <token>",
	Short: "Attempt to open a sealed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		content, err := a.pipeline.Unseal(args[0])
		if err != nil {
			return err
		}
		fmt.Println(content)
		return nil
	},
}

var signCmd = &cobra.Command{
	Use:   "sign <content>",
	Short: "Admit content and print its signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		sig, err := a.pipeline.Sign(args[0])
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <content> <signature>",
	Short: "Check a signature against content and admission policy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.pipeline.Verify(args[0], args[1]) {
			fmt.Println("invalid")
			os.Exit(1)
		}
		fmt.Println("valid")
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <content> <amount>",
	Short: "Convert one unit to an allowed target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse amount %q: %w", args[1], err)
		}
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.converter.Convert(args[0], convertOrigin, convertTarget, amount)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <tx>",
	Short: "Enforce one transfer and print its settlement key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		key, err := a.enforcer.Enforce(args[0], transferOrigin, transferRecipient)
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
