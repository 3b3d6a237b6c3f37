package commands

import (
	"github.com/spf13/pflag"

	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// filterFlags are the flags that build a list of filters.
type filterFlags struct {
	loaderPrefer      []string
	loaderAny         []string
	gameVersionStrict []string
	gameVersionMinor  []string
	channel           string
	filename          string
	title             string
	description       string
}

func (f *filterFlags) register(flags *pflag.FlagSet) {
	flags.StringSliceVar(&f.loaderPrefer, "loader-prefer", nil, "Prefer these mod loaders, in order")
	flags.StringSliceVar(&f.loaderAny, "loader-any", nil, "Require any of these mod loaders")
	flags.StringSliceVar(&f.gameVersionStrict, "game-version-strict", nil, "Require any of these game versions")
	flags.StringSliceVar(&f.gameVersionMinor, "game-version-minor", nil, "Require any minor version of these game versions")
	flags.StringVar(&f.channel, "channel", "", "Minimum release channel (release, beta or alpha)")
	flags.StringVar(&f.filename, "filename", "", "Regex the filename must match")
	flags.StringVar(&f.title, "title", "", "Regex the file title must match")
	flags.StringVar(&f.description, "description", "", "Regex the file description must match")
}

func parseLoaders(names []string) ([]metadata.Loader, error) {
	loaders := make([]metadata.Loader, 0, len(names))
	for _, n := range names {
		l, err := metadata.ParseLoader(n)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, l)
	}
	return loaders, nil
}

// build returns the filters set by the flags, in a fixed order.
func (f *filterFlags) build() (filters.Filters, error) {
	var out filters.Filters

	if len(f.loaderPrefer) > 0 {
		loaders, err := parseLoaders(f.loaderPrefer)
		if err != nil {
			return nil, err
		}
		out = append(out, filters.LoaderPrefer(loaders...))
	}
	if len(f.loaderAny) > 0 {
		loaders, err := parseLoaders(f.loaderAny)
		if err != nil {
			return nil, err
		}
		out = append(out, filters.LoaderAny(loaders...))
	}
	if len(f.gameVersionStrict) > 0 {
		out = append(out, filters.GameVersionStrict(f.gameVersionStrict...))
	}
	if len(f.gameVersionMinor) > 0 {
		out = append(out, filters.GameVersionMinor(f.gameVersionMinor...))
	}
	if f.channel != "" {
		c, err := metadata.ParseReleaseChannel(f.channel)
		if err != nil {
			return nil, err
		}
		out = append(out, filters.MinChannel(c))
	}
	if f.filename != "" {
		out = append(out, filters.FilenameRegex(f.filename))
	}
	if f.title != "" {
		out = append(out, filters.TitleRegex(f.title))
	}
	if f.description != "" {
		out = append(out, filters.DescriptionRegex(f.description))
	}
	return out, nil
}
