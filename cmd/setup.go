package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"vodcoach/internal/twelvelabs"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Vodcoach",
	Long:  `Configure API keys, create directories, and set up the environment for Vodcoach.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎮 Vodcoach Setup"))

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func createDirectories(ctx context.Context) error {
	if err := os.MkdirAll("uploads", 0755); err != nil {
		return fmt.Errorf("create uploads: %w", err)
	}
	fmt.Println(successStyle.Render("✓ Created directories"))
	return nil
}

func configureEnv(ctx context.Context) error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureRequiredKeys(ctx, env); err != nil {
		return err
	}

	if err := configureOptionalKeys(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureRequiredKeys(ctx context.Context, env map[string]string) error {
	var apiKey, indexID string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Twelve Labs API Key").
				Description("https://playground.twelvelabs.io/dashboard/api-key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("Twelve Labs API Key")),
			huh.NewInput().
				Title("Twelve Labs Index ID").
				Description("An index with the Marengo and Pegasus engines enabled").
				Value(&indexID).
				Validate(required("Twelve Labs Index ID")),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env["TWELVELABS_API_KEY"] = strings.TrimSpace(apiKey)
	env["TWELVELABS_INDEX_ID"] = strings.TrimSpace(indexID)

	if err := verifyIndexAccess(ctx, env["TWELVELABS_API_KEY"], env["TWELVELABS_INDEX_ID"]); err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Could not verify index access: %v", err)))
	}

	return nil
}

func verifyIndexAccess(ctx context.Context, apiKey, indexID string) error {
	client := twelvelabs.NewClient(apiKey, indexID)

	var err error
	_ = spinner.New().
		Title("Verifying index access").
		Action(func() { _, err = client.ListVideos(ctx) }).
		Run()
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Index reachable"))
	return nil
}

func configureOptionalKeys(env map[string]string) error {
	if err := configureGemini(env); err != nil {
		return err
	}
	return configureGCS(env)
}

func configureGemini(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Gemini thumbnails?").
		Description("Generates catalog thumbnails from video summaries (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var apiKey string
	if err := huh.NewInput().
		Title("Gemini API Key").
		Description("https://aistudio.google.com/apikey").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		env["GEMINI_API_KEY"] = apiKey
	}
	return nil
}

func configureGCS(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Mirror uploads to Google Cloud Storage?").
		Description("Keeps a bucket copy of uploads and thumbnails (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var bucket string
	if err := huh.NewInput().
		Title("GCS Bucket").
		Description("Uses application default credentials").
		Value(&bucket).
		Run(); err != nil {
		return err
	}

	bucket = strings.TrimSpace(bucket)
	if bucket != "" {
		env["GCS_BUCKET"] = bucket
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"TWELVELABS_API_KEY",
		"TWELVELABS_INDEX_ID",
		"GEMINI_API_KEY",
		"GCS_BUCKET",
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Run: vodcoach serve")
	fmt.Println("  2. Upload a clip: curl -F file=@match.mp4 http://localhost:5000/api/upload")
	fmt.Println("  3. Pull dashboard uploads: vodcoach sync")
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
