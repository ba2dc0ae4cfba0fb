// Package audio plays the bell sound.
// It uses the beep library to decode WAV, OGG and MP3 files into memory
// and play them on the system speaker with volume control.
package audio
