package main

import (
	"sort"
	"strings"
)

type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// LosslessMode describes what --lossless does for a target format.
type LosslessMode int

const (
	// LosslessNone: the flag has no effect.
	LosslessNone LosslessMode = iota
	// LosslessNative: the container is always lossless.
	LosslessNative
	// LosslessToggle: the encoder has a lossless switch that the flag turns on.
	LosslessToggle
	// LosslessMaxQuality: lossy codec; the flag forces maximum quality and
	// 4:4:4 chroma.
	LosslessMaxQuality
)

type Format struct {
	Name     string
	Kind     Kind
	Lossless LosslessMode
}

// LosslessCapable reports whether the format can reproduce source pixels exactly.
func (f Format) LosslessCapable() bool {
	return f.Lossless == LosslessNative || f.Lossless == LosslessToggle
}

// Order matters: it is the order formats are offered to the user.
var formatTable = []Format{
	{Name: "jpeg", Kind: KindImage, Lossless: LosslessMaxQuality},
	{Name: "jpg", Kind: KindImage, Lossless: LosslessMaxQuality},
	{Name: "png", Kind: KindImage, Lossless: LosslessNative},
	{Name: "bmp", Kind: KindImage, Lossless: LosslessNone},
	{Name: "gif", Kind: KindImage, Lossless: LosslessNone},
	{Name: "tiff", Kind: KindImage, Lossless: LosslessNative},
	{Name: "webp", Kind: KindImage, Lossless: LosslessToggle},
	{Name: "avif", Kind: KindImage, Lossless: LosslessMaxQuality},

	{Name: "mp4", Kind: KindVideo},
	{Name: "avi", Kind: KindVideo},
	{Name: "mov", Kind: KindVideo},
	{Name: "mkv", Kind: KindVideo},
	{Name: "webm", Kind: KindVideo},
}

var formatsByName = func() map[string]Format {
	m := make(map[string]Format, len(formatTable))
	for _, f := range formatTable {
		m[f.Name] = f
	}
	return m
}()

// LookupFormat finds a format of the given kind. Names are case-insensitive.
func LookupFormat(name string, kind Kind) (Format, bool) {
	f, ok := formatsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok || f.Kind != kind {
		return Format{}, false
	}
	return f, true
}

// FormatNames lists the formats of a kind in table order.
func FormatNames(kind Kind) []string {
	var names []string
	for _, f := range formatTable {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}

// LosslessFormatNames lists the lossless-capable image formats, sorted.
func LosslessFormatNames() []string {
	var names []string
	for _, f := range formatTable {
		if f.LosslessCapable() {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}
