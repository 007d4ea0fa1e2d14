package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Run air for hot-reload development",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev()
		},
	}
}

func runDev() error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	env := os.Environ()
	env = append(env, "PORT=8090")

	return syscall.Exec(airPath, airArgs(), env)
}

// airArgs configures air on the command line so no .air.toml is needed.
// Templates, styles and markdown are embedded, so edits to them rebuild too.
func airArgs() []string {
	return []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/main ./cmd/server",
		"-build.bin", "./tmp/main",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,uploads",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,html,css,md,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", "8080",
		"-proxy.app_port", "8090",
	}
}
