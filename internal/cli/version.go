package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/insight/internal/buildinfo"
	"github.com/aidanlsb/insight/internal/catalog"
	"github.com/aidanlsb/insight/internal/index"
	"github.com/aidanlsb/insight/internal/ui"
)

// VersionResult is the JSON payload of `insight version`.
type VersionResult struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	BuiltAt  string `json:"built_at,omitempty"`
	Dirty    bool   `json:"dirty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`

	// IndexSchema is the newest cache migration this binary applies.
	IndexSchema uint `json:"index_schema"`
	// Vocabulary counts the files written by `insight init`.
	Vocabulary catalog.Stats `json:"bundled_vocabulary"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the insight build, cache schema and bundled vocabulary",
	Long: `Prints the release version, the SQLite cache schema this binary
migrates to, and the size of the vocabulary that 'insight init' writes.

Release builds stamp the version with -ldflags; other builds fall back to
the VCS information recorded by the Go toolchain.

Examples:
  insight version
  insight version --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := describeBuild()

		schema, err := index.LatestSchemaVersion()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		result.IndexSchema = schema

		bundled, err := catalog.Default()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		result.Vocabulary = bundled.Stats()

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		fmt.Println(ui.Header("insight " + result.Version))
		field := func(label, value string) {
			if value != "" {
				fmt.Printf("%s  %s\n", ui.Muted.Render(fmt.Sprintf("%-14s", label+":")), value)
			}
		}
		commit := result.Commit
		if result.Dirty {
			commit += " (dirty)"
		}
		field("Commit", commit)
		field("Built", result.BuiltAt)
		field("Go", result.Go)
		field("Platform", result.Platform)
		field("Index schema", fmt.Sprintf("%d", result.IndexSchema))
		field("Vocabulary", fmt.Sprintf("%d books, %d topics",
			result.Vocabulary.Books, result.Vocabulary.Topics))
		return nil
	},
}

// describeBuild fills the build fields. Link-time values win over the VCS
// stamps so that a release binary reports its tag even when built dirty.
func describeBuild() VersionResult {
	result := VersionResult{
		Version:  "devel",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			result.Version = v
		}
		if bi.GoVersion != "" {
			result.Go = bi.GoVersion
		}
		if settings["GOOS"] != "" && settings["GOARCH"] != "" {
			result.Platform = settings["GOOS"] + "/" + settings["GOARCH"]
		}
		result.Commit = shortCommit(settings["vcs.revision"])
		result.BuiltAt = settings["vcs.time"]
		result.Dirty = strings.EqualFold(settings["vcs.modified"], "true")
	}

	if buildinfo.Version != "" {
		result.Version = buildinfo.Version
	}
	if buildinfo.Commit != "" {
		result.Commit = shortCommit(buildinfo.Commit)
	}
	if buildinfo.Date != "" {
		result.BuiltAt = buildinfo.Date
	}
	return result
}

func shortCommit(rev string) string {
	const n = 12
	if len(rev) > n {
		return rev[:n]
	}
	return rev
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
