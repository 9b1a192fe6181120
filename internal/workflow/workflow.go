package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/ratoolkit/internal/converter"
	"github.com/nconklindev/ratoolkit/internal/types"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type State int

const (
	StateIdle State = iota
	StateValidatingPaths
	StateBackingUp
	StateConverting
	StateDone
	StateRejected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidatingPaths:
		return "validating"
	case StateBackingUp:
		return "backing up"
	case StateConverting:
		return "converting"
	case StateDone:
		return "done"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Terminal reports whether a run ends in s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateRejected || s == StateFailed
}

// Converter is the conversion step of a run.
type Converter interface {
	Convert(inputFile, outputFile string) (bool, error)
}

// Backuper copies a file aside before it is read or overwritten.
type Backuper interface {
	BackupFile(path string) (string, bool)
}

type Options struct {
	// AllowNewOutput accepts an output path that does not exist yet, as long
	// as its directory does.
	AllowNewOutput bool
}

// Controller runs one convert action end to end: validate both paths, back
// up both files, then convert. Runs are strictly sequential.
type Controller struct {
	converter Converter
	backups   Backuper
	log       *slog.Logger
	opts      Options
	state     State
	backedUp  []string
}

func NewController(conv Converter, backups Backuper, log *slog.Logger, opts Options) *Controller {
	return &Controller{
		converter: conv,
		backups:   backups,
		log:       log,
		opts:      opts,
	}
}

// State returns the state the last run ended in, or StateIdle.
func (c *Controller) State() State {
	return c.state
}

// Backups lists the backup files written by the last run.
func (c *Controller) Backups() []string {
	return c.backedUp
}

// Run executes the workflow for req. Validation problems and soft
// conversion failures end in StateRejected with a nil error; a fatal
// conversion error ends in StateFailed and is returned.
func (c *Controller) Run(req types.ConversionRequest) (State, error) {
	c.backedUp = nil
	req.InputFile = strings.TrimSpace(req.InputFile)
	req.OutputFile = strings.TrimSpace(req.OutputFile)

	c.state = StateValidatingPaths
	if err := c.validate(req); err != nil {
		c.log.Warn(validationMessage(req, err))
		return c.finish(StateRejected), nil
	}

	c.state = StateBackingUp
	c.backup(req.InputFile)
	if converter.FileExists(req.OutputFile) {
		c.backup(req.OutputFile)
	} else {
		c.log.Info(fmt.Sprintf("Output file %s will be created; nothing to back up.", req.OutputFile))
	}

	c.state = StateConverting
	c.log.Info(fmt.Sprintf("Converting data: %s ---> %s...", req.InputFile, req.OutputFile))
	ok, err := c.converter.Convert(req.InputFile, req.OutputFile)
	if err != nil {
		c.log.Error(fmt.Sprintf("Conversion failed: %v", err))
		return c.finish(StateFailed), err
	}
	if !ok {
		return c.finish(StateRejected), nil
	}

	c.log.Info("Success!")
	return c.finish(StateDone), nil
}

func (c *Controller) finish(s State) State {
	c.state = s
	return s
}

func (c *Controller) backup(path string) {
	if dest, ok := c.backups.BackupFile(path); ok {
		c.backedUp = append(c.backedUp, dest)
	}
}

var (
	errNotExist = errors.New("does not exist")
	errNoParent = errors.New("has no existing parent directory")
	errNotAFile = errors.New("is not a file")
)

func (c *Controller) validate(req types.ConversionRequest) error {
	outputRule := validation.By(existingFile)
	if c.opts.AllowNewOutput {
		outputRule = validation.By(creatableFile)
	}
	return validation.ValidateStruct(&req,
		validation.Field(&req.InputFile, validation.Required, validation.By(existingFile)),
		validation.Field(&req.OutputFile, validation.Required, outputRule),
	)
}

func existingFile(value interface{}) error {
	path, _ := value.(string)
	info, err := os.Stat(path)
	if err != nil {
		return errNotExist
	}
	if !info.Mode().IsRegular() {
		return errNotAFile
	}
	return nil
}

func creatableFile(value interface{}) error {
	path, _ := value.(string)
	info, err := os.Stat(path)
	if err == nil {
		if !info.Mode().IsRegular() {
			return errNotAFile
		}
		return nil
	}
	dir, err := os.Stat(filepath.Dir(path))
	if err != nil || !dir.IsDir() {
		return errNoParent
	}
	return nil
}

// validationMessage picks the first failing field, input before output.
func validationMessage(req types.ConversionRequest, err error) string {
	errs, ok := err.(validation.Errors)
	if !ok {
		return err.Error()
	}
	if ferr, ok := errs["InputFile"]; ok {
		return fieldMessage("input Excel", req.InputFile, ferr)
	}
	if ferr, ok := errs["OutputFile"]; ok {
		return fieldMessage("output HTML", req.OutputFile, ferr)
	}
	return err.Error()
}

func fieldMessage(kind, path string, err error) string {
	if path == "" {
		return fmt.Sprintf("Select an existing %s file; no path was given. Ignoring...", kind)
	}
	return fmt.Sprintf("Select an existing %s file; %s %s. Ignoring...", kind, path, err)
}
