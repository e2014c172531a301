package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/nimbus-portfolio/nimbus"
	"github.com/urfave/cli/v2"
)

var recordedConfig *nimbus.RuntimeConfig

func mockStart(cfg nimbus.RuntimeConfig) error {
	recordedConfig = &cfg
	return nil
}

func stubStart(t *testing.T, fn func(nimbus.RuntimeConfig) error) {
	t.Helper()
	original := nimbus.Start
	nimbus.Start = fn
	t.Cleanup(func() {
		nimbus.Start = original
		recordedConfig = nil
	})
}

func clearPort(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
}

func TestDevCommand_UsesDevConfig(t *testing.T) {
	stubStart(t, mockStart)
	clearPort(t)

	app := &cli.App{Commands: []*cli.Command{DevCommand}}

	err := app.Run([]string{"nimbus", "dev"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}

	if recordedConfig.Env != "dev" || recordedConfig.EnableCache != false || recordedConfig.Port != 8080 {
		t.Errorf("unexpected dev config: %+v", recordedConfig)
	}
}

func TestProdCommand_UsesProdConfig(t *testing.T) {
	stubStart(t, mockStart)
	clearPort(t)

	app := &cli.App{Commands: []*cli.Command{ProdCommand}}

	err := app.Run([]string{"nimbus", "prod"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig == nil {
		t.Fatal("expected Start to be called, but it was not")
	}

	if recordedConfig.Env != "prod" || recordedConfig.EnableCache != true || recordedConfig.Port != 8080 {
		t.Errorf("unexpected prod config: %+v", recordedConfig)
	}
}

func TestProdCommand_Flags(t *testing.T) {
	stubStart(t, mockStart)

	app := &cli.App{Commands: []*cli.Command{ProdCommand}}

	err := app.Run([]string{"nimbus", "prod", "--port", "9000", "--cache=false"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig.Port != 9000 || recordedConfig.EnableCache {
		t.Errorf("expected flags to override defaults, got: %+v", recordedConfig)
	}
}

func TestDevCommand_PortFromEnv(t *testing.T) {
	stubStart(t, mockStart)
	t.Setenv("PORT", "5050")

	app := &cli.App{Commands: []*cli.Command{DevCommand}}

	if err := app.Run([]string{"nimbus", "dev"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if recordedConfig.Port != 5050 {
		t.Errorf("expected port from PORT, got %d", recordedConfig.Port)
	}
}

func TestDevCommand_ReturnsStartError(t *testing.T) {
	stubStart(t, func(cfg nimbus.RuntimeConfig) error {
		return errors.New("address in use")
	})

	app := &cli.App{Commands: []*cli.Command{DevCommand}}

	err := app.Run([]string{"nimbus", "dev"})
	if err == nil || err.Error() != "address in use" {
		t.Errorf("expected start error, got: %v", err)
	}
}
