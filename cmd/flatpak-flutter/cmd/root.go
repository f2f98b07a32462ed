package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theappgineer/flatpak-flutter/internal/cargo"
	"github.com/theappgineer/flatpak-flutter/internal/config"
	"github.com/theappgineer/flatpak-flutter/internal/convert"
	"github.com/theappgineer/flatpak-flutter/internal/fetch"
	"github.com/theappgineer/flatpak-flutter/internal/logging"
	"github.com/theappgineer/flatpak-flutter/internal/pubspec"
	"github.com/theappgineer/flatpak-flutter/internal/sdk"
)

const Version = "0.7.4"

var (
	appModule     string
	appPubspec    string
	extraPubspecs []string
	cargoLocks    []string
	fromGit       string
	fromGitBranch string
	keepBuildDirs bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "flatpak-flutter MANIFEST",
	Short: "Make a Flutter app manifest build offline",
	Long: `flatpak-flutter converts the Flatpak manifest of a Flutter application into
one that builds without network access.

It pins the Flutter SDK, generates the pub and cargo sources of all
dependencies, applies the bundled foreign dependency overrides and writes
<app-id>.yml or <app-id>.json next to the generated source lists.`,
	Version:       Version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("flatpak-flutter-{{.Version}}\n")

	flags := rootCmd.Flags()
	flags.StringVar(&appModule, "app-module", "", "name of the app module in the manifest")
	flags.StringVar(&appPubspec, "app-pubspec", "", "path to the app pubspec")
	flags.StringSliceVar(&extraPubspecs, "extra-pubspecs", nil, "comma separated list of extra pubspec paths")
	flags.StringSliceVar(&cargoLocks, "cargo-locks", nil, "comma separated list of Cargo.lock paths")
	flags.StringVar(&fromGit, "from-git", "", "get input files from git repo")
	flags.StringVar(&fromGitBranch, "from-git-branch", "", "branch to use in --from-git")
	flags.BoolVar(&keepBuildDirs, "keep-build-dirs", false, "don't remove build directories after processing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolP("version", "V", false, "print version and exit")
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := logging.New(cmd.ErrOrStderr(), verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[0])
	if err != nil {
		return err
	}

	client, err := fetch.NewClient()
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}
	runner := fetch.NewExecRunner(logger)

	conv := &convert.Converter{
		Config:    cfg,
		Logger:    logger,
		Acquirer:  fetch.NewAcquirer(client, runner, cfg, logger),
		Fetcher:   fetch.NewAppFetcher(runner, cfg, logger),
		PubGetter: fetch.NewPubGetter(runner, cfg),
		Pub:       pubspec.NewGenerator(logger),
		Cargo:     cargo.NewGenerator(logger),
		SDK:       sdk.NewGenerator(client, logger),
	}

	res, err := conv.Run(cmd.Context(), convert.Options{
		Manifest:      args[0],
		AppModule:     appModule,
		AppPubspec:    appPubspec,
		ExtraPubspecs: extraPubspecs,
		CargoLocks:    cargoLocks,
		FromGit:       fromGit,
		FromGitBranch: fromGitBranch,
		KeepBuildDirs: keepBuildDirs,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Manifest == "" {
		fmt.Fprintf(out, "Nothing to convert for %s\n", res.AppID)
		return nil
	}

	for _, f := range res.Files {
		fmt.Fprintf(out, "Generated %s\n", f)
	}
	fmt.Fprintf(out, "  Flutter: %s\n", res.Tag)
	return nil
}
