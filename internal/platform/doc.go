package platform

// Package platform contains OS integration glue: output path suggestions,
// directory checks and write probing, the Documents folder, and revealing or
// opening files with the system file manager and default apps.
