package cmd

import (
	"errors"
	"fmt"

	"github.com/lepinkainen/pdfkit/prefs"
	"github.com/lepinkainen/pdfkit/types"
	"github.com/lepinkainen/pdfkit/ui"
)

// PrefsCmd shows or changes the stored preferences
type PrefsCmd struct {
	Theme string `help:"Set the theme (dark, light, toggle)" enum:"keep,dark,light,toggle" default:"keep"`
	Music string `help:"Background music (on, off, toggle)" enum:"keep,on,off,toggle" default:"keep"`
}

func (cmd *PrefsCmd) Run(appCtx *types.AppContext) error {
	store := appCtx.Prefs
	if store == nil {
		return errors.New("no preference store configured")
	}

	switch cmd.Theme {
	case "dark", "light":
		if err := store.SetTheme(prefs.Theme(cmd.Theme)); err != nil {
			return err
		}
	case "toggle":
		if _, err := store.ToggleTheme(); err != nil {
			return err
		}
	}

	switch cmd.Music {
	case "on":
		if err := store.SetMusic(true); err != nil {
			return err
		}
	case "off":
		if err := store.SetMusic(false); err != nil {
			return err
		}
	case "toggle":
		if err := store.SetMusic(!store.Get().MusicEnabled); err != nil {
			return err
		}
	}

	p := store.Get()
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("theme: %s", p.Theme)))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("musicEnabled: %t", p.MusicEnabled)))
	fmt.Println(ui.MutedStyle.Render(store.Path()))
	return nil
}
