package main

import (
	"fmt"
	"os"

	"github.com/ochronus/gopixeldrain/internal/app"
	"github.com/ochronus/gopixeldrain/internal/config"
	"github.com/ochronus/gopixeldrain/internal/progress"
	"github.com/ochronus/gopixeldrain/internal/services/pixeldrain"
	"github.com/ochronus/gopixeldrain/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configPath  string
	downloadDir string
	forceFlag   bool
)

func main() {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	// Root command
	rootCmd := &cobra.Command{
		Use:           "gopixeldrain",
		Short:         "pixeldrain.com command-line client",
		Long:          "Upload, download and inspect files hosted on pixeldrain.com. An API key (config file or PIXELDRAIN_API_KEY) is required for upload, stats and reupload.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")

	// Upload command
	uploadCmd := &cobra.Command{
		Use:   "upload <file_path>",
		Short: "Upload a file to pixeldrain",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}

	// Download command
	downloadCmd := &cobra.Command{
		Use:   "download <file_id_or_url>",
		Short: "Download a file from pixeldrain",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Download directory (default from config, else /tmp)")
	downloadCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Force attachment disposition (?download parameter)")

	// Info command
	infoCmd := &cobra.Command{
		Use:   "info <file_id_or_url>",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show account statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	// Reupload command
	reuploadCmd := &cobra.Command{
		Use:   "reupload <file_id_or_url>",
		Short: "Download a file and upload the copy as a new file",
		Args:  cobra.ExactArgs(1),
		RunE:  runReupload,
	}
	reuploadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Working directory (default from config, else /tmp)")
	reuploadCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Force attachment disposition on the download leg")

	// Generate-config command
	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.GenerateConfig(configPath)
		},
	}

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gopixeldrain version %s\n", version)
		},
	}

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reuploadCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildContainer loads and validates the configuration and wires the shared
// dependencies.
func buildContainer() (*app.Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return app.NewContainer(cfg)
}

// workDir selects the directory for download/reupload, preferring the --dir
// flag over the configured default.
func workDir(container *app.Container) string {
	if downloadDir != "" {
		return downloadDir
	}
	return container.Config.DownloadDirectory
}

func runUpload(cmd *cobra.Command, args []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	sink := progress.NewReporter(fmt.Sprintf("Uploading %s...", args[0]), os.Stderr)
	result, err := container.Client.Upload(args[0], sink)
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	fmt.Printf("File uploaded successfully: %s\n", result.URL)
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	fileID, err := pixeldrain.ParseFileID(args[0])
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	sink := progress.NewReporter(fmt.Sprintf("Downloading %s...", fileID), os.Stderr)
	result, err := container.Client.Download(fileID, workDir(container), forceFlag, sink)
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	fmt.Printf("File downloaded successfully: %s\n", result.Path)
	fmt.Printf("File size: %s\n", progress.FormatBytes(result.Bytes))
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	fileID, err := pixeldrain.ParseFileID(args[0])
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	info, err := container.Client.Info(fileID)
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	fmt.Printf("File name: %s\n", info.Name)
	fmt.Printf("File size: %s\n", progress.FormatBytes(info.Size))
	fmt.Printf("MIME type: %s\n", info.MimeType)
	fmt.Printf("Views: %d\n", info.Views)
	fmt.Printf("Downloads: %d\n", info.Downloads)
	fmt.Printf("Upload date: %s\n", info.DateUpload)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	files, err := container.Client.UserFiles()
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	stats := files.Stats()
	fmt.Printf("Files in account: %d\n", stats.TotalFiles)
	fmt.Printf("Total size: %s\n", progress.FormatBytes(stats.TotalSize))
	fmt.Printf("Total views: %d\n", stats.TotalViews)
	fmt.Printf("Total downloads: %d\n", stats.TotalDownloads)
	fmt.Printf("Total bandwidth used: %s\n", progress.FormatBytes(stats.TotalBandwidth))

	if len(stats.TopDownloads) > 0 {
		fmt.Println("Most downloaded files:")
		for i, f := range stats.TopDownloads {
			fmt.Printf("%d. %s - %d downloads\n", i+1, f.Name, f.Downloads)
		}
	}
	return nil
}

func runReupload(cmd *cobra.Command, args []string) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	fileID, err := pixeldrain.ParseFileID(args[0])
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	downloadSink := progress.NewReporter(fmt.Sprintf("Downloading %s...", fileID), os.Stderr)
	uploadSink := progress.NewReporter("Uploading copy...", os.Stderr)
	result, err := pixeldrain.Reupload(container.Client, fileID, workDir(container), forceFlag, downloadSink, uploadSink)
	if err != nil {
		return renderFailure(container.Logger, err)
	}

	fmt.Printf("File re-uploaded successfully: %s\n", result.URL)
	return nil
}

// renderFailure logs a descriptive message for every outcome kind and passes
// the error back so the process exits non-zero.
func renderFailure(logger *logrus.Logger, err error) error {
	switch pixeldrain.KindOf(err) {
	case pixeldrain.KindInvalidReference:
		logger.Errorf("Invalid file reference: %v", err)
	case pixeldrain.KindUnauthorized:
		logger.Errorf("Unauthorized: %v", err)
	case pixeldrain.KindNotFound:
		logger.Errorf("File not found: %v", err)
	case pixeldrain.KindRateLimited:
		logger.Errorf("Rate limited: %v", err)
		if url := pixeldrain.CaptchaURLOf(err); url != "" {
			logger.Infof("Please visit %s to complete the captcha", url)
		}
	case pixeldrain.KindVirusDetected:
		logger.Errorf("Virus detected: %v", err)
		if url := pixeldrain.CaptchaURLOf(err); url != "" {
			logger.Infof("Please visit %s to confirm the download", url)
		}
	case pixeldrain.KindLocalIO:
		logger.Errorf("Local I/O error: %v", err)
	default:
		logger.Errorf("Request failed: %v", err)
	}
	return err
}
