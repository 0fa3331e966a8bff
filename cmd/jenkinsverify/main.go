package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "jenkinsverify",
	Short: "Verify that a provisioned Jenkins instance is reachable and authenticating",
	Long: "jenkinsverify issues one authenticated Groovy probe against a Jenkins\n" +
		"controller to confirm the TLS path and the admin credential work end to end.\n" +
		"Credentials are read from a jenkins.env file written by the setup scripts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerification(context.Background())
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the end-to-end verification (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerification(context.Background())
	},
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", "")
	v.SetDefault("auth", "")
	v.SetDefault("env_file", "")
	v.SetDefault("url", "")
	v.SetDefault("user", "")
	v.SetDefault("insecure", false)

	// Environment variables support: JENKINSVERIFY_AUTH, JENKINSVERIFY_URL, ...
	v.SetEnvPrefix("JENKINSVERIFY")
	v.AutomaticEnv()

	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to an optional config yaml")
	rootCmd.PersistentFlags().String("auth", v.GetString("auth"), "authentication mode: crumb (password + CSRF crumb) or token (API token); default crumb")
	rootCmd.PersistentFlags().String("env-file", v.GetString("env_file"), "path to the jenkins.env credentials file (default ./jenkins.env)")
	rootCmd.PersistentFlags().String("url", v.GetString("url"), "Jenkins base URL (default depends on auth mode)")
	rootCmd.PersistentFlags().String("user", v.GetString("user"), "Jenkins account name (default admin)")
	rootCmd.PersistentFlags().Bool("insecure", v.GetBool("insecure"), "skip TLS certificate verification")

	waitCmd.Flags().String("wait-url", "", "URL to poll (defaults to <base>/login)")
	waitCmd.Flags().Duration("timeout", 0, "total time to wait before giving up")
	waitCmd.Flags().Duration("interval", 0, "delay between polls")

	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("auth", rootCmd.PersistentFlags().Lookup("auth"))
	_ = v.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))
	_ = v.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	_ = v.BindPFlag("insecure", rootCmd.PersistentFlags().Lookup("insecure"))
	_ = v.BindPFlag("wait_url", waitCmd.Flags().Lookup("wait-url"))
	_ = v.BindPFlag("wait_timeout", waitCmd.Flags().Lookup("timeout"))
	_ = v.BindPFlag("wait_interval", waitCmd.Flags().Lookup("interval"))

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(waitCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
