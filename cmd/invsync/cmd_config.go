package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .env file interactively",
	Long: `Create a .env file with connection settings for IP Fabric and NetBox.

API tokens are read without echo. An existing file is only overwritten
after confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := envFile
		if path == "" {
			path = ".env"
		}
		return createEnvFile(path)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func createEnvFile(path string) error {
	in := bufio.NewReader(os.Stdin)

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("%s already exists.\n", path)
		if !promptYesNo(in, "Overwrite it?") {
			fmt.Println("Keeping existing configuration.")
			return nil
		}
	}

	ipfHost := promptLine(in, "IP Fabric server address: ")
	ipfToken, err := promptSecret("IP Fabric API token: ")
	if err != nil {
		return err
	}
	nbHost := promptLine(in, "NetBox server address: ")
	nbToken, err := promptSecret("NetBox API token: ")
	if err != nil {
		return err
	}
	insecure := promptYesNo(in, "Disable SSL verification?")

	var b strings.Builder
	b.WriteString("# IP Fabric settings\n")
	fmt.Fprintf(&b, "ipfabricbaseurl=https://%s/api/v7/\n", ipfHost)
	fmt.Fprintf(&b, "ipfabrictoken=%s\n", ipfToken)
	b.WriteString("# NetBox settings\n")
	fmt.Fprintf(&b, "netboxbaseurl=https://%s/api/\n", nbHost)
	fmt.Fprintf(&b, "netboxtoken=%s\n", nbToken)
	b.WriteString("# SSL verification setting\n")
	fmt.Fprintf(&b, "disableverifyssl=%t\n", insecure)

	if promptYesNo(in, "Configure advanced settings?") {
		b.WriteString("# Advanced settings\n")
		for _, s := range []struct{ key, prompt string }{
			{"vendornamesensitivity", "Vendor name match sensitivity (0-1, default 0.8): "},
			{"modellnamesensitivity", "Model name match sensitivity (0-1, default 0.8): "},
			{"deviceimagesensitivity", "Device image match sensitivity (0-1, default 0.8): "},
			{"modulenamesensitivity", "Module name match sensitivity (0-1, default 0.8): "},
		} {
			if v := promptLine(in, s.prompt); v != "" {
				fmt.Fprintf(&b, "%s=%s\n", s.key, v)
			}
		}
		if repo := promptLine(in, "Device type library repository (blank for default): "); repo != "" {
			fmt.Fprintf(&b, "reposource=%s\n", repo)
		}
	}

	// Tokens inside; keep the file private.
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func promptLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptYesNo(in *bufio.Reader, prompt string) bool {
	answer := promptLine(in, prompt+" (y/n): ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
