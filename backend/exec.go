package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"
	"github.com/xh3b4sd/tracer"
)

// render executes the given script template with the given mapping.
func render(tem string, dat map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	{
		t, err := template.New("script").Option("missingkey=error").Parse(tem)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = t.Execute(&buf, dat)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return buf.Bytes(), nil
}

// run renders the template into a temporary file and executes it with the
// configured interpreter. The child process is killed when ctx is done.
func (b *Backend) run(ctx context.Context, tem string, dat map[string]interface{}) error {
	var err error

	var byt []byte
	{
		byt, err = render(tem, dat)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var fil *os.File
	{
		fil, err = os.CreateTemp("", "xgbridge-script-*.py")
		if err != nil {
			return tracer.Mask(err)
		}
		defer os.Remove(fil.Name())
	}

	{
		_, err := fil.Write(byt)
		if err != nil {
			_ = fil.Close()
			return tracer.Mask(err)
		}
	}

	{
		err := fil.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var out bytes.Buffer
	cmd := exec.Command(b.Pyt, fil.Name())

	if b.Deb {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	{
		err := cmd.Start()
		if err != nil {
			return tracer.Mask(fmt.Errorf("%w: %s", executionFailedError, err.Error()))
		}
	}

	don := make(chan struct{})
	defer close(don)

	go func() {
		select {
		case <-ctx.Done():
			err := cmd.Process.Kill()
			if err != nil && !errors.Is(err, os.ErrProcessDone) {
				log.Error().Err(err).Int("pid", cmd.Process.Pid).Msg("failed to kill Python process")
			}
		case <-don:
		}
	}()

	{
		err := cmd.Wait()
		if ctx.Err() != nil {
			return tracer.Mask(ctx.Err())
		}
		if err != nil {
			return tracer.Mask(fmt.Errorf("%w: %s: %s", executionFailedError, err.Error(), strings.TrimSpace(out.String())))
		}
	}

	return nil
}
