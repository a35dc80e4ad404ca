package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/filedrop/internal/cli/output"
	"github.com/yndnr/filedrop/internal/server/httpserver/handler"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server status and memory usage",
		Action: statusAction,
	}
}

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check server health",
		Action: healthAction,
	}
}

type statusView struct {
	*handler.StatusResponse
}

func (v statusView) Table() *output.Table {
	m := v.MemoryUsage
	t := output.NewKeyValueTable()
	t.AddField("Status", v.Status)
	t.AddField("Version", v.Version)
	t.AddField("Server", v.ServerURL)
	t.AddField("Active files", v.ActiveFiles)
	t.AddField("Memory", fmt.Sprintf("%s / %s (%.1f%%)", m.CurrentFormatted, m.MaxFormatted, m.UsagePercentage))
	t.AddField("Max file size", v.FileLimits.MaxFileSizeFormatted)
	t.AddField("Server time", v.ServerTime.Local().Format(time.DateTime))
	return t
}

func statusAction(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	status, err := client.Status(c.Context)
	if err != nil {
		return err
	}
	return render(c, statusView{status})
}

type healthView struct {
	*handler.HealthResponse
}

func (v healthView) Table() *output.Table {
	t := output.NewKeyValueTable()
	t.AddField("Status", v.Status)
	t.AddField("Version", v.Version)
	t.AddField("Time", v.Time)
	return t
}

func healthAction(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	health, err := client.Health(c.Context)
	if err != nil {
		return fmt.Errorf("server unhealthy: %w", err)
	}
	return render(c, healthView{health})
}
