package deploy

import (
	"context"
	"os"
	"testing"

	"github.com/bmortens115/macOS-Onboarding/pkg/errors"
	"github.com/bmortens115/macOS-Onboarding/pkg/run/runtest"
	"github.com/bmortens115/macOS-Onboarding/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{
	ToolPath:           "/usr/local/Installomator/Installomator.sh",
	ReleaseURL:         "https://github.com/Installomator/Installomator/releases/latest",
	PackageURLTemplate: "https://github.com/Installomator/Installomator/releases/download/v{version}/Installomator-{version}.pkg",
}

func newWithInstalled(runner *runtest.Fake, installed bool) *Deploy {
	d := New(runner, testOpts)
	d.statFile = func(string) (os.FileInfo, error) {
		if installed {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
	return d
}

func TestResolveLatestVersion(t *testing.T) {
	fake := runtest.NewFake().Script(
		"curl -fsSLI -o /dev/null -w %{url_effective} "+testOpts.ReleaseURL,
		runtest.Response{Stdout: "https://github.com/Installomator/Installomator/releases/tag/v10.8"},
	)
	d := New(fake, testOpts)

	version, err := d.ResolveLatestVersion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "v10.8", version)
}

func TestResolveLatestVersionNoRedirect(t *testing.T) {
	fake := runtest.NewFake().Script(
		"curl -fsSLI -o /dev/null -w %{url_effective} "+testOpts.ReleaseURL,
		runtest.Response{Stdout: testOpts.ReleaseURL},
	)
	d := New(fake, testOpts)

	_, err := d.ResolveLatestVersion(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrereqMissing))
}

func TestResolveLatestVersionCurlFailure(t *testing.T) {
	fake := runtest.NewFake().ScriptErr(
		"curl -fsSLI -o /dev/null -w %{url_effective} "+testOpts.ReleaseURL,
		"exit status 6",
	)
	d := New(fake, testOpts)

	_, err := d.ResolveLatestVersion(context.Background())
	assert.Error(t, err)
}

func TestBootstrapSkipsWhenInstalled(t *testing.T) {
	fake := runtest.NewFake()
	d := newWithInstalled(fake, true)

	require.NoError(t, d.Bootstrap(context.Background()))
	assert.Empty(t, fake.CommandLines())
}

func TestBootstrapFailsFastOnDownloadError(t *testing.T) {
	fake := runtest.NewFake().
		Script("curl -fsSLI -o /dev/null -w %{url_effective} "+testOpts.ReleaseURL,
			runtest.Response{Stdout: "https://github.com/Installomator/Installomator/releases/tag/v10.8"}).
		ScriptErr("curl -fSL -o /tmp/Installomator-10.8.pkg https://github.com/Installomator/Installomator/releases/download/v10.8/Installomator-10.8.pkg",
			"exit status 22")
	d := newWithInstalled(fake, false)

	err := d.Bootstrap(context.Background())

	require.Error(t, err)
	// The installer step never ran.
	for _, line := range fake.CommandLines() {
		assert.NotContains(t, line, "installer -pkg")
	}
}

func TestInstallLabel(t *testing.T) {
	fake := runtest.NewFake()
	d := newWithInstalled(fake, true)

	err := d.Install(context.Background(), types.CatalogItem{Name: "googlechrome", Kind: types.LabelBackend})

	require.NoError(t, err)
	assert.Equal(t, []string{testOpts.ToolPath + " googlechrome NOTIFY=silent"}, fake.CommandLines())
}

func TestInstallLabelRequiresTool(t *testing.T) {
	d := newWithInstalled(runtest.NewFake(), false)

	err := d.Install(context.Background(), types.CatalogItem{Name: "vscode", Kind: types.LabelBackend})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrereqMissing))
}
