package system

import (
	"context"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Initramfs rebuilds the initramfs images and, when sdboot-manage is
// available, regenerates the bootloader entries afterwards.
type Initramfs struct {
	runner       types.Runner
	mkinitcpio   string
	sdbootManage string
	logger       zerolog.Logger
}

// NewInitramfs creates the builder. Empty bin names take the defaults.
func NewInitramfs(runner types.Runner, mkinitcpio, sdbootManage string) *Initramfs {
	if mkinitcpio == "" {
		mkinitcpio = "mkinitcpio"
	}
	if sdbootManage == "" {
		sdbootManage = "sdboot-manage"
	}
	return &Initramfs{
		runner:       runner,
		mkinitcpio:   mkinitcpio,
		sdbootManage: sdbootManage,
		logger:       logging.GetLogger("system.initramfs"),
	}
}

// Rebuild regenerates all presets, then the boot entries. A missing
// sdboot-manage is tolerated (not every install manages entries with it);
// a missing mkinitcpio is not.
func (i *Initramfs) Rebuild(ctx context.Context) (types.CommandResult, error) {
	result, err := i.runner.Run(ctx, i.mkinitcpio, "-P")
	if err != nil || result.ExitCode != 0 {
		return result, err
	}

	sdResult, err := i.runner.Run(ctx, i.sdbootManage, "gen")
	if errors.IsErrorCode(err, errors.ErrCommandUnavailable) {
		i.logger.Debug().Msg("sdboot-manage not present, skipping entry generation")
		return result, nil
	}
	return sdResult, err
}
