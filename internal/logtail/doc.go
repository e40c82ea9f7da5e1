// Package logtail reads the tail of the hunter log file for the Logs tab.
//
// Read keeps a ring of the last maxLines lines so large files are scanned
// once without being held in memory. A missing file is not an error; the log
// may simply not have been written yet.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// The log file is written by logrus's TextFormatter, so each line is a
// sequence of key=value pairs:
//
//	time="2026-10-18 09:12:01" level=warning msg="search failed" component=search
//
// Parse splits such a line into an Entry, lifting time, level, msg and
// component into fields and keeping everything else in Fields. Lines that
// are not in that shape (panics, stack traces) come back with Message set to
// the raw text and no level. Filter applies a minimum level on top of Parse
// and always keeps unleveled lines so stack traces stay next to their error.
package logtail
