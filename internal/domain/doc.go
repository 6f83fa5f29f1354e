// Package domain models MSC URP "Numerica" weather radar products.
//
// # Data Source
//
// Numerica files are line-oriented text exports of a radar product such as
// precipitation rate. The upstream exporter writes one header field per
// line followed by a single Data line holding the sparse measurements.
//
// # Line Grammar
//
//	<Key> <value...>
//
// The key ends at the first whitespace run; the rest of the line, trimmed,
// is the value. A line with no whitespace at all is malformed: it is
// reported to the Diagnostics sink and skipped, the parse continues.
//
// Every Numerica document contains the sentinel
//
//	MajorProductType RADAR
//
// somewhere in its header. Input without it is rejected with FormatError
// before any other line is looked at.
//
// # Field Types
//
//	Width, Height, HornHeight, GroundHeight                       integer
//	LatCentre, LonCentre, LatitudeIncrement, LongitudeIncrement   float (degrees)
//	ValidTime                                                     YYYYMMDDHHmm, UTC
//	anything else                                                 string, verbatim
//
// A typed field whose value does not coerce aborts the parse with
// ParseError. When a key repeats, the later value wins and the key moves to
// the end of the metadata order.
//
// # Data
//
//	Data 45.1,-73.5,0.25,45.2,-73.4,1.5,...
//
// Comma separated floats grouped in runs of three: latitude, longitude,
// value. A trailing group of fewer than three tokens is dropped. Points are
// kept in file order and are neither deduplicated nor bounds checked.
//
// # Grid Geometry
//
// The grid is defined by the metadata alone: Width x Height cells of
// LongitudeIncrement x LatitudeIncrement degrees centred on
// (LonCentre, LatCentre) in EPSG:4326. See package grid.
package domain
