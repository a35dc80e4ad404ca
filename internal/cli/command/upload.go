package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/filedrop/internal/cli/output"
	"github.com/yndnr/filedrop/internal/server/httpserver/handler"
	"github.com/yndnr/filedrop/pkg/bytesize"
)

// UploadCommand returns the upload command.
func UploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Aliases:   []string{"up"},
		Usage:     "Upload a file and print its download link",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Require this password to download",
				EnvVars: []string{"FILEDROP_FILE_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Filename to store (default: base name of <file>, required for stdin)",
			},
			&cli.BoolFlag{
				Name:  "qr",
				Usage: "Print a QR code of the download link",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show upload progress on stderr",
			},
		},
		Action: uploadAction,
	}
}

// uploadView is an upload result as shown to the user.
type uploadView struct {
	*handler.UploadResponse
}

func (v uploadView) Table() *output.Table {
	t := output.NewKeyValueTable()
	t.AddField("Token", v.Token)
	t.AddField("Filename", v.Filename)
	t.AddField("Size", v.SizeFormatted)
	t.AddField("Type", v.MediaType)
	t.AddField("Password", yesNo(v.HasPassword))
	t.AddField("Expires", v.ExpiresAt.Local().Format(time.DateTime))
	t.AddField("SHA-256", v.Digest)
	t.AddField("Link", v.DownloadURL)
	return t
}

func uploadAction(c *cli.Context) error {
	if err := exactArgs(c, 1, "<file|->"); err != nil {
		return err
	}

	src := c.Args().First()
	name := c.String("name")

	var (
		content io.Reader
		size    int64 = -1
	)
	if src == "-" {
		if name == "" {
			return fmt.Errorf("--name is required when reading from stdin")
		}
		content = c.App.Reader
	} else {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", src)
		}
		size = info.Size()
		content = f
		if name == "" {
			name = filepath.Base(src)
		}
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	var bar *output.ProgressBar
	if c.Bool("progress") {
		bar = output.NewProgressBar(stderr(c), "Uploading "+name, size)
		content = bar.Reader(content)
	}

	result, err := client.Upload(c.Context, name, content, c.String("password"))
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	// The data URL is for browsers; the terminal gets --qr instead.
	result.QRCode = ""

	if err := render(c, uploadView{result}); err != nil {
		return err
	}

	if c.Bool("qr") {
		return printQR(stdout(c), result.DownloadURL)
	}
	return nil
}

// printQR draws a QR code of content with half-height block characters.
func printQR(w io.Writer, content string) error {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	_, err = fmt.Fprint(w, "\n"+qr.ToSmallString(false))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// humanSize formats n, or "unknown" for a negative size.
func humanSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return bytesize.Format(n)
}
