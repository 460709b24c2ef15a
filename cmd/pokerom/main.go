// Package main provides the pokerom CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/cartridge"
	"github.com/richardwooding/pokerom/internal/config"
	"github.com/richardwooding/pokerom/internal/extractor"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/sprite"
)

// ErrInvalidOffset indicates a sprite offset that is not a 16-bit number.
var ErrInvalidOffset = errors.New("invalid offset")

// CLI represents the command-line interface structure.
type CLI struct {
	config.Logging

	Info    InfoCmd    `cmd:"" help:"Display cartridge information."`
	Extract ExtractCmd `cmd:"" help:"Extract creatures, maps and trainers."`
	Sprite  SpriteCmd  `cmd:"" help:"Decode one compressed picture."`
	View    ViewCmd    `cmd:"" help:"Show the overworld or a single map in a window."`
}

// InfoCmd displays cartridge header information.
type InfoCmd struct {
	ROM string `arg:"" type:"existingfile" help:"Path to ROM file."`
}

// Run executes the info command.
func (c *InfoCmd) Run() error {
	img, err := cartridge.Load(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}

	header := img.Header()
	fmt.Printf("ROM Information:\n")
	fmt.Printf("  Title:           %s\n", header.TitleString())
	fmt.Printf("  Cartridge Type:  %s (0x%02X)\n", header.CartridgeType, byte(header.CartridgeType))
	fmt.Printf("  ROM Size:        %d KiB (%d banks)\n", header.ROMBanks()*rom.BankSize/1024, header.ROMBanks())
	fmt.Printf("  RAM Size:        %d KiB\n", header.RAMSizeBytes()/1024)
	fmt.Printf("  Version:         %d\n", header.Version)
	fmt.Printf("  Global Checksum: 0x%04X (valid: %v)\n", header.GlobalChecksum, header.VerifyGlobalChecksum(img.Data()))
	return nil
}

// ExtractCmd exports every picture and data.json.
type ExtractCmd struct {
	ROM    string `arg:"" type:"existingfile" help:"Path to ROM file."`
	Outdir string `arg:"" help:"Output directory."`
	Scale  int    `help:"Picture scale factor (1-10)." default:"1"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(ctx context.Context, logger *log.Logger) error {
	if err := config.CheckScale(c.Scale); err != nil {
		return err
	}
	img, err := cartridge.Load(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}
	logger.Info("Loaded cartridge", log.String("title", img.Header().TitleString()))

	e := extractor.New(img, logger)
	if err := e.Load(); err != nil {
		return err
	}
	return e.Export(ctx, c.Outdir, c.Scale)
}

// SpriteCmd decodes the compressed picture at bank:offset.
type SpriteCmd struct {
	ROM    string `arg:"" type:"existingfile" help:"Path to ROM file."`
	Bank   uint8  `arg:"" help:"ROM bank."`
	Offset string `arg:"" help:"Offset in the bank window, e.g. 0x4000."`
	Output string `arg:"" help:"Output PNG file."`
	Scale  int    `help:"Picture scale factor (1-10)." default:"1"`
}

// Run executes the sprite command.
func (c *SpriteCmd) Run(logger *log.Logger) error {
	if err := config.CheckScale(c.Scale); err != nil {
		return err
	}
	offset, err := strconv.ParseUint(c.Offset, 0, 16)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOffset, c.Offset)
	}
	img, err := cartridge.Load(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}

	addr := rom.NewAddr(c.Bank, uint16(offset))
	pic, err := sprite.Decode(rom.NewReader(img.Data(), addr))
	if err != nil {
		return err
	}
	if err := gfx.SavePNG(c.Output, gfx.Scale(pic.ToRGBA(), c.Scale)); err != nil {
		return err
	}
	logger.Info("Saved picture", log.String("addr", addr.String()), log.String("path", c.Output))
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("pokerom"),
		kong.Description("Extract data and pictures from Game Boy monster RPG cartridges."),
		kong.UsageOnError(),
		kong.BindTo(app.Context(), (*context.Context)(nil)),
	)

	logger := cli.Logger()
	if err := ctx.Run(logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
