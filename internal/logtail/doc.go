// Package logtail reads the tail of Navigator's JSON log file and renders it
// for the terminal.
//
// The file is scanned once and only the last N matching entries are kept, so
// memory stays bounded by N regardless of file size. Lines written by zap are
// decoded into an Entry; anything else is passed through untouched.
//
//	entries, err := logtail.Tail(cfg.LogPath(), 200, zapcore.WarnLevel)
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
package logtail
