package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func resetViper() {
	viper.Reset()
	viper.SetEnvPrefix("WORKLOG")
	viper.AutomaticEnv()
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_ExecutesHelp(t *testing.T) {
	resetViper()

	out, err := executeCommand("--help")
	if err != nil {
		t.Errorf("root command should execute without error: %v", err)
	}
	if !strings.Contains(out, "worklog") {
		t.Errorf("help output missing program name:\n%s", out)
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	wanted := []string{"job", "todo", "import [file]", "backup [file]", "restore [file]", "recheck"}
	for _, want := range wanted {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Use == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q subcommand to be registered", want)
		}
	}
}

func TestExecute_ReturnsErrorForUnknownCommand(t *testing.T) {
	resetViper()

	if _, err := executeCommand("unknown-command-xyz"); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestRootCommand_EnvVarBinding(t *testing.T) {
	resetViper()
	t.Setenv("WORKLOG_DATABASE_URL", "postgres://env-host/worklog")

	if got := viper.GetString("database_url"); got != "postgres://env-host/worklog" {
		t.Errorf("expected database_url from env, got: %s", got)
	}
}

func TestRootCommand_CustomConfigFile(t *testing.T) {
	resetViper()

	tmpFile, err := os.CreateTemp("", "worklog-test-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	tmpFile.WriteString("database_url: postgres://config-host/worklog\n")
	tmpFile.Close()

	cfgFile = tmpFile.Name()
	initConfig()

	if got := viper.GetString("database_url"); got != "postgres://config-host/worklog" {
		t.Errorf("expected database_url from config file, got: %s", got)
	}

	cfgFile = ""
}
