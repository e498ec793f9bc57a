package engines

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/preprocess"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// TesseractCLIEngine shells out to the tesseract binary
type TesseractCLIEngine struct {
	config *config.Config
	logger *logger.Logger
}

// NewTesseractCLIEngine creates a new tesseract CLI engine
func NewTesseractCLIEngine(cfg *config.Config, log *logger.Logger) *TesseractCLIEngine {
	return &TesseractCLIEngine{
		config: cfg,
		logger: log,
	}
}

// Name returns the name of the OCR tool
func (e *TesseractCLIEngine) Name() string {
	return "tesseract"
}

// GetDescription returns a description of the OCR tool
func (e *TesseractCLIEngine) GetDescription() string {
	return "Tesseract OCR (command line)"
}

// IsAvailable checks if the tesseract binary can be found
func (e *TesseractCLIEngine) IsAvailable() bool {
	_, err := exec.LookPath(e.config.TesseractPath)
	return err == nil
}

// Recognize writes the image to a scratch PNG and runs tesseract on it
func (e *TesseractCLIEngine) Recognize(ctx context.Context, img image.Image, opts interfaces.OCROptions) (*interfaces.OCRResult, error) {
	data, err := preprocess.EncodePNG(img)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeOCR, "failed to encode image for tesseract")
	}

	tm := e.config.CreateTempFileManager("tesseract", e.logger)
	var result *interfaces.OCRResult

	err = tm.WithCleanup(func() error {
		imagePath, err := tm.CreateTempFile("plaque", ".png")
		if err != nil {
			return utils.WrapError(err, utils.ErrorTypeIO, "failed to create temp image")
		}
		if err := os.WriteFile(imagePath, data, 0600); err != nil {
			return utils.WrapError(err, utils.ErrorTypeIO, "failed to write temp image")
		}

		output, err := e.run(ctx, e.buildArgs(imagePath, opts))
		if err != nil {
			return err
		}

		if opts.WithConfidence {
			text, conf, err := ParseTSV(output)
			if err != nil {
				return utils.WrapError(err, utils.ErrorTypeOCR, "failed to parse tesseract TSV output")
			}
			result = &interfaces.OCRResult{Text: text, Confidence: &conf}
			return nil
		}

		result = &interfaces.OCRResult{Text: strings.TrimSpace(string(output))}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Extracted %d characters using tesseract", len(result.Text))
	return result, nil
}

func (e *TesseractCLIEngine) buildArgs(imagePath string, opts interfaces.OCROptions) []string {
	args := []string{imagePath, "stdout"}
	if len(opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(opts.Languages, "+"))
	}
	if opts.PageSegMode > 0 {
		args = append(args, "--psm", strconv.Itoa(opts.PageSegMode))
	}
	if opts.WithConfidence {
		args = append(args, "tsv")
	}
	return args
}

func (e *TesseractCLIEngine) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.config.TesseractPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("Running tesseract command: %s", cmd.String())
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, utils.WrapError(ctx.Err(), utils.ErrorTypeTimeout, "tesseract was interrupted")
		}
		e.logger.Error("Tesseract command failed: %s", strings.TrimSpace(stderr.String()))
		return nil, utils.NewOCRError(fmt.Sprintf("tesseract failed: %s", strings.TrimSpace(stderr.String())), err)
	}

	return stdout.Bytes(), nil
}

// tsvWord is one level-5 row of tesseract TSV output
type tsvWord struct {
	block, par, line int
	conf             float64
	text             string
}

// ParseTSV rebuilds the page text from tesseract TSV output and averages
// the word confidences. Words on one line are joined by spaces, a new
// paragraph or block is separated by a blank line. Rows with conf -1 or
// empty text do not count toward the average.
func ParseTSV(data []byte) (string, float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var words []tsvWord
	header := true
	for scanner.Scan() {
		row := scanner.Text()
		if header {
			header = false
			if strings.HasPrefix(row, "level") {
				continue
			}
		}
		if strings.TrimSpace(row) == "" {
			continue
		}

		cols := strings.Split(row, "\t")
		if len(cols) < 11 {
			return "", 0, fmt.Errorf("malformed TSV row: %q", row)
		}
		if cols[0] != "5" {
			continue
		}

		text := ""
		if len(cols) > 11 {
			text = strings.TrimSpace(cols[11])
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(cols[10]), 64)
		if err != nil {
			return "", 0, fmt.Errorf("bad confidence %q: %w", cols[10], err)
		}
		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])

		words = append(words, tsvWord{block: block, par: par, line: line, conf: conf, text: text})
	}
	if err := scanner.Err(); err != nil {
		return "", 0, err
	}

	var (
		out          strings.Builder
		sum          float64
		counted      int
		prev         *tsvWord
		lineHasWords bool
	)
	for i := range words {
		w := &words[i]
		if w.text == "" || w.conf == -1 {
			continue
		}
		sum += w.conf
		counted++

		switch {
		case prev == nil:
		case prev.block != w.block || prev.par != w.par:
			out.WriteString("\n\n")
			lineHasWords = false
		case prev.line != w.line:
			out.WriteString("\n")
			lineHasWords = false
		}
		if lineHasWords {
			out.WriteByte(' ')
		}
		out.WriteString(w.text)
		lineHasWords = true
		prev = w
	}

	avg := 0.0
	if counted > 0 {
		avg = sum / float64(counted)
	}
	return out.String(), avg, nil
}
