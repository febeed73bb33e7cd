package escpos

// Initialize returns ESC @, which clears the print buffer and resets modes
func Initialize() []byte {
	return []byte{ESC, '@'}
}

// Feed returns ESC d n, printing the buffer and feeding n lines
func Feed(lines byte) []byte {
	return []byte{ESC, 'd', lines}
}

// Cut returns GS V 0 for a full cut or GS V 1 for a partial one
func Cut(partial bool) []byte {
	if partial {
		return []byte{GS, 'V', 1}
	}
	return []byte{GS, 'V', 0}
}
