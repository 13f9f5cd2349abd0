package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/bmortens115/macOS-Onboarding/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/bmortens115/macOS-Onboarding/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/bmortens115/macOS-Onboarding/internal/version.Date={{.Date}}
)
