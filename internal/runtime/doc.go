// Package runtime runs the external commands of a build on the host.
//
// A [Command] is an argument vector with extra environment variables and an
// optional working directory. A [Runner] either executes it ([Host]) or
// prints it as a shell command line without running it ([Noop]), which is
// how dry runs show what a build would do.
//
// Example usage:
//
//	var rt runtime.Runner = runtime.NewHost(os.Stdout, os.Stderr)
//	if noop {
//	    rt = runtime.NewNoop(os.Stdout)
//	}
//
//	err := rt.Run(ctx, runtime.Command{
//	    Args: []string{"fai-diskimage", "--class", "DEBIAN,CLOUD", "disk.raw"},
//	    Env:  map[string]string{"CLOUD_BUILD_NAME": "disk"},
//	})
package runtime
