package command

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/filedrop/internal/cli/output"
)

// DownloadCommand returns the download command.
func DownloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"get"},
		Usage:     "Download a file by token or link",
		ArgsUsage: "<token|url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "File password, if the uploader set one",
				EnvVars: []string{"FILEDROP_FILE_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"O"},
				Usage:   "Write to this path, or - for stdout (default: the uploaded filename)",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing file",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show download progress on stderr",
			},
		},
		Action: downloadAction,
	}
}

// downloadView summarizes a finished download.
type downloadView struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"media_type"`
	Digest   string `json:"digest"`
	Verified bool   `json:"verified"`
}

func (v downloadView) Table() *output.Table {
	t := output.NewKeyValueTable()
	t.AddField("Saved", v.Path)
	t.AddField("Filename", v.Filename)
	t.AddField("Size", humanSize(v.Size))
	t.AddField("Type", v.Type)
	t.AddField("SHA-256", v.Digest)
	t.AddField("Verified", yesNo(v.Verified))
	return t
}

func downloadAction(c *cli.Context) error {
	if err := exactArgs(c, 1, "<token|url>"); err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	d, err := client.Download(c.Context, c.Args().First(), c.String("password"))
	if err != nil {
		return err
	}
	defer d.Body.Close()

	dest := c.String("output-file")
	if dest == "" {
		dest = filepath.Base(d.Filename)
	}

	var (
		w       io.Writer
		cleanup func()
	)
	if dest == "-" {
		w = stdout(c)
		cleanup = func() {}
	} else {
		f, err := createOutput(dest, c.Bool("force"))
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
		cleanup = func() {
			f.Close()
			os.Remove(dest)
		}
	}

	var body io.Reader = d.Body
	var bar *output.ProgressBar
	if c.Bool("progress") {
		bar = output.NewProgressBar(stderr(c), "Downloading "+d.Filename, d.Size)
		body = bar.Reader(body)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(w, h), body)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		cleanup()
		return fmt.Errorf("download: %w", err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if d.Digest != "" && d.Digest != sum {
		cleanup()
		return fmt.Errorf("download: digest mismatch (server %s, received %s)", d.Digest, sum)
	}

	view := downloadView{
		Path:     dest,
		Filename: d.Filename,
		Size:     n,
		Type:     d.ContentType,
		Digest:   sum,
		Verified: d.Digest != "",
	}

	// Keep stdout clean when it carries the file itself.
	if dest == "-" {
		return output.NewFormatter(ParseGlobalFlags(c).Output).Format(stderr(c), view)
	}
	return render(c, view)
}

func createOutput(path string, force bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return f, err
}
