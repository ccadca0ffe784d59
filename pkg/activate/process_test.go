package activate_test

import (
	"os"
	"sync"
	"testing"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/mozey/toolenv/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestApplyProcess(t *testing.T) {
	t.Setenv("PATH", `C:\Windows`)
	t.Setenv("INCLUDE", "")
	t.Setenv("LIB", `C:\lib`)
	t.Setenv("VCToolsInstallDir", "")

	d, err := activate.Activate(
		activate.KindCompiler, testutil.Params(), activate.ProcessEnv())
	require.NoError(t, err)
	require.NoError(t, activate.ApplyProcess(d))

	require.Equal(t, msvcRoot+`\`, os.Getenv("VCToolsInstallDir"))
	require.Equal(t, msvcRoot+`\bin\Hostx64\x64;C:\Windows`, os.Getenv("PATH"))
	require.Equal(t, msvcRoot+`\include`, os.Getenv("INCLUDE"))
	require.Equal(t, msvcRoot+`\lib\x64;C:\lib`, os.Getenv("LIB"))

	// Variables set to an empty value are kept
	require.NoError(t, activate.ApplyProcess(
		activate.Revert(d, activate.ProcessEnv())))

	require.Equal(t, `C:\Windows`, os.Getenv("PATH"))
	require.Equal(t, `C:\lib`, os.Getenv("LIB"))
	v, ok := os.LookupEnv("INCLUDE")
	require.True(t, ok)
	require.Equal(t, "", v)
	v, ok = os.LookupEnv("VCToolsInstallDir")
	require.True(t, ok)
	require.Equal(t, "", v)

	// Deactivate has no record of the previous state
	d, err = activate.Activate(
		activate.KindCompiler, testutil.Params(), activate.ProcessEnv())
	require.NoError(t, err)
	require.NoError(t, activate.ApplyProcess(d))
	d, err = activate.Deactivate(
		activate.KindCompiler, testutil.Params(), activate.ProcessEnv())
	require.NoError(t, err)
	require.NoError(t, activate.ApplyProcess(d))

	require.Equal(t, `C:\Windows`, os.Getenv("PATH"))
	_, ok = os.LookupEnv("INCLUDE")
	require.False(t, ok)
	_, ok = os.LookupEnv("VCToolsInstallDir")
	require.False(t, ok)
}

func TestActivateProcessConcurrent(t *testing.T) {
	t.Setenv("PATH", `C:\Windows`)
	t.Setenv("INCLUDE", `C:\include`)
	t.Setenv("LIB", `C:\lib`)
	t.Setenv("VCToolsInstallDir", "")

	n := 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := activate.ActivateProcess(
				[]activate.Kind{activate.KindCompiler}, testutil.Params())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// No prepend was lost
	env := activate.ProcessEnv()
	for i := 0; i < n; i++ {
		d, err := activate.Deactivate(activate.KindCompiler, testutil.Params(), env)
		require.NoError(t, err)
		env = env.Apply(d)
	}
	require.Equal(t, `C:\include`, env.Get("INCLUDE"))
}
