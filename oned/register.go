package oned

import libcodabar "github.com/ericlevine/libcodabar"

func init() {
	libcodabar.RegisterReader(libcodabar.FormatCodabar, func(*libcodabar.DecodeOptions) libcodabar.Reader {
		return NewLibraryCodabarImageReader()
	})
	libcodabar.RegisterWriter(libcodabar.FormatCodabar, func() libcodabar.Writer {
		return NewLibraryCodabarWriter()
	})
}
