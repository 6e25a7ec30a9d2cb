package scratch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/scratch"
	"github.com/arthur-debert/testbed/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) (*testutil.TestEnvironment, scratch.Env) {
	t.Helper()
	testutil.KeepWorkingDirectory(t)
	env := testutil.NewTestEnvironment(t)
	return env, scratch.Env{Deployer: env.Deployer, Allocator: scratch.NewNameAllocator()}
}

var foo = scratch.NewIdentity("Foo", "Suite.Foo")

func TestOpen_DefaultChangesIntoScratchDir(t *testing.T) {
	env, senv := newEnv(t)
	before := testutil.Getwd(t)

	sp, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)

	assert.Equal(t, "Foo", sp.RelativePath)
	assert.Equal(t, env.WorkPath("Foo"), sp.Path)
	assert.DirExists(t, sp.Path)
	assert.Equal(t, testutil.EvalSymlinks(t, sp.Path), testutil.Getwd(t))

	require.NoError(t, sp.Close())
	assert.Equal(t, before, testutil.Getwd(t))
}

func TestOpen_NoScratch(t *testing.T) {
	env, senv := newEnv(t)
	before := testutil.Getwd(t)

	sp, err := scratch.Open(senv, foo, scratch.NoScratch)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	assert.Equal(t, env.WorkPath("Foo"), sp.Path)
	assert.NoDirExists(t, sp.Path)
	assert.Equal(t, before, testutil.Getwd(t), "no directory to change into")
}

func TestOpen_NoScratchEntersExistingDir(t *testing.T) {
	env, senv := newEnv(t)
	env.WithWorkTree(testutil.FileTree{"Foo": testutil.FileTree{"keep.txt": "k"}})

	sp, err := scratch.Open(senv, foo, scratch.NoScratch|scratch.UseScratchDir)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	assert.Equal(t, testutil.EvalSymlinks(t, sp.Path), testutil.Getwd(t))
	testutil.AssertFileContent(t, sp.Join("keep.txt"), "k")
}

func TestOpen_SequentialPadsStartEmpty(t *testing.T) {
	_, senv := newEnv(t)

	first, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("test.txt", []byte("first"), 0644))
	require.NoError(t, first.Close())

	second, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.Equal(t, first.Path, second.Path)
	testutil.AssertDirEmpty(t, second.Path)

	require.NoError(t, os.WriteFile("test.txt", []byte("second"), 0644))
	testutil.AssertFileContent(t, second.Join("test.txt"), "second")
}

func TestOpen_CreateOnMissingKeepsContents(t *testing.T) {
	env, senv := newEnv(t)
	env.WithWorkTree(testutil.FileTree{"Foo": testutil.FileTree{"existing.txt": "e"}})

	sp, err := scratch.Open(senv, foo, scratch.CreateOnMissing)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	testutil.AssertFileContent(t, sp.Join("existing.txt"), "e")

	other, err := scratch.Open(senv, scratch.NewIdentity("Bar", "Suite.Bar"), scratch.CreateOnMissing|scratch.KeepCurrentDir)
	require.NoError(t, err)
	defer func() { _ = other.Close() }()
	assert.DirExists(t, other.Path)
}

func TestOpen_KeepCurrentDir(t *testing.T) {
	_, senv := newEnv(t)
	before := testutil.Getwd(t)

	sp, err := scratch.Open(senv, foo, scratch.KeepCurrentDir)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	assert.DirExists(t, sp.Path)
	assert.Equal(t, before, testutil.Getwd(t))
}

func TestOpen_UseDeployDir(t *testing.T) {
	env, senv := newEnv(t)

	sp, err := scratch.Open(senv, foo, scratch.UseDeployDir)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	assert.DirExists(t, sp.Path)
	assert.Equal(t, testutil.EvalSymlinks(t, env.WorkRoot), testutil.Getwd(t))
}

func TestOpen_CollidingTestsGetDistinctDirs(t *testing.T) {
	_, senv := newEnv(t)

	a, err := scratch.Open(senv, scratch.NewIdentity("Same", "SuiteA.Same"), scratch.KeepCurrentDir)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	b, err := scratch.Open(senv, scratch.NewIdentity("Same", "SuiteB.Same"), scratch.KeepCurrentDir)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.NotEqual(t, a.Path, b.Path)
	assert.DirExists(t, a.Path)
	assert.DirExists(t, b.Path)
}

func TestOpen_Errors(t *testing.T) {
	_, senv := newEnv(t)

	tests := []struct {
		name string
		env  scratch.Env
		id   scratch.TestIdentity
		opts scratch.Options
		code errors.ErrorCode
	}{
		{"conflicting creation", senv, foo, scratch.NoScratch | scratch.CreateOnMissing, errors.ErrInvalidOption},
		{"conflicting cwd", senv, foo, scratch.KeepCurrentDir | scratch.UseDeployDir, errors.ErrInvalidOption},
		{"missing deployer", scratch.Env{}, foo, scratch.Default, errors.ErrArgumentRequired},
		{"empty name", senv, scratch.TestIdentity{}, scratch.Default, errors.ErrArgumentRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := scratch.Open(tt.env, tt.id, tt.opts)
			require.Error(t, err)
			assert.Nil(t, sp)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestOpen_RawIdentityStaysUnderWorkRoot(t *testing.T) {
	env, senv := newEnv(t)
	sibling := filepath.Join(env.TempDir, "sibling.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("keep"), 0644))

	for _, short := range []string{"..", ".", " . "} {
		t.Run(short, func(t *testing.T) {
			sp, err := scratch.Open(senv, scratch.TestIdentity{ShortName: short, FullName: "T" + short}, scratch.Default)
			require.Error(t, err)
			assert.Nil(t, sp)
			assert.Equal(t, errors.ErrInvalidPath, errors.GetErrorCode(err))
			assert.FileExists(t, sibling)
			assert.DirExists(t, env.ResourceRoot)
		})
	}

	t.Run("separators are sanitized", func(t *testing.T) {
		sp, err := scratch.Open(senv, scratch.TestIdentity{ShortName: "../../escape", FullName: "T.escape"}, scratch.Default)
		require.NoError(t, err)
		defer func() { _ = sp.Close() }()

		assert.Equal(t, ".._.._escape", sp.RelativePath)
		assert.Equal(t, env.WorkPath(".._.._escape"), sp.Path)
		assert.DirExists(t, sp.Path)
		assert.FileExists(t, sibling)
	})
}

func TestClose_Idempotent(t *testing.T) {
	_, senv := newEnv(t)
	before := testutil.Getwd(t)

	sp, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)

	require.NoError(t, sp.Close())
	require.NoError(t, os.Chdir(os.TempDir()))
	require.NoError(t, sp.Close(), "second close is a no-op")
	assert.NotEqual(t, before, testutil.Getwd(t), "second close must not change directory")
}

func TestClose_RestoresAfterPanic(t *testing.T) {
	_, senv := newEnv(t)
	before := testutil.Getwd(t)

	func() {
		defer func() { _ = recover() }()
		sp, err := scratch.Open(senv, foo, scratch.Default)
		require.NoError(t, err)
		defer func() { _ = sp.Close() }()
		panic("boom")
	}()

	assert.Equal(t, before, testutil.Getwd(t))
}

func TestDeployItem(t *testing.T) {
	env, senv := newEnv(t)
	env.WithFileTree(testutil.FileTree{
		"Resources": testutil.FileTree{
			"test1.txt": "one",
			"test2.txt": "two",
		},
	})

	sp, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	res, err := sp.DeployItem("Resources/test1.txt")
	require.NoError(t, err)
	assert.Equal(t, sp.Join("test1.txt"), res.Target)

	res, err = sp.DeployItem("Resources", "folder2")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Copied)
	testutil.AssertTreeEqual(t, sp.Path, testutil.FileTree{
		"test1.txt": "one",
		"folder2": testutil.FileTree{
			"Resources": testutil.FileTree{
				"test1.txt": "one",
				"test2.txt": "two",
			},
		},
	})

	_, err = os.Stat("folder2/Resources/test2.txt")
	assert.NoError(t, err, "deployed files are visible relative to the working directory")
}

func TestDeployEmptyFile(t *testing.T) {
	_, senv := newEnv(t)

	sp, err := scratch.Open(senv, foo, scratch.Default)
	require.NoError(t, err)
	defer func() { _ = sp.Close() }()

	require.NoError(t, sp.DeployEmptyFile("sub/empty.txt"))
	testutil.AssertFileContent(t, sp.Join("sub", "empty.txt"), "")

	err = sp.DeployEmptyFile("")
	assert.Equal(t, errors.ErrArgumentRequired, errors.GetErrorCode(err))
}

func TestNew(t *testing.T) {
	before := testutil.Getwd(t)

	t.Run("registers cleanup", func(t *testing.T) {
		env, senv := newEnv(t)
		sp := scratch.New(t, senv, scratch.Default)

		assert.Equal(t, "registers_cleanup", sp.RelativePath)
		assert.Equal(t, env.WorkPath("registers_cleanup"), sp.Path)
		assert.Equal(t, testutil.EvalSymlinks(t, sp.Path), testutil.Getwd(t))
	})

	assert.Equal(t, before, testutil.Getwd(t))
}
