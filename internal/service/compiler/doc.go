// Package compiler builds the NSIS and Inno Setup installers from their scripts.
package compiler
