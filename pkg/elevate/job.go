package elevate

// JobKind names a registered elevated action.
type JobKind string

const (
	// JobDeployLabels installs deployment-tool labels as root.
	JobDeployLabels JobKind = "deploy-labels"
	// JobPAMEdit inserts the TouchID line into the PAM sudo config.
	JobPAMEdit JobKind = "pam-edit"
)

// Job is the typed, serializable description of an elevated action.
// It carries only the state the child process needs: one catalog slice
// or one file edit, never the parent's full configuration.
type Job struct {
	Kind   JobKind    `json:"kind"`
	Deploy *DeployJob `json:"deploy,omitempty"`
	PAM    *PAMJob    `json:"pam,omitempty"`
}

// DeployJob carries the label batch for the deployment tool, plus
// everything the child needs to bootstrap the tool when it is missing.
type DeployJob struct {
	// Tool is the path to the deployment tool script/binary.
	Tool string `json:"tool"`
	// ReleaseURL redirects to the latest tagged release.
	ReleaseURL string `json:"releaseUrl"`
	// PackageURL is the installer download template, with {version}
	// substituted from the resolved release.
	PackageURL string `json:"packageUrl"`
	// Labels in execution order; the batch is fail-fast.
	Labels []string `json:"labels"`
}

// PAMJob carries the one stateful file edit with backup.
type PAMJob struct {
	Path string `json:"path"`
	Line string `json:"line"`
}
