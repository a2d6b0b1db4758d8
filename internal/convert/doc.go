// Package convert validates conversion requests and drives the media engine
// through load, audio check and MP3 transcode, one conversion at a time.
package convert
