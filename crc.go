package ecc608

// crc16 calculates the CRC over a command or response frame.
//
// Refer to the Atmel CryptoAuthentication Data Zone CRC Calculation document
// for details about how CRC is used in this device.
// https://ww1.microchip.com/downloads/en/Appnotes/Atmel-8936-CryptoAuth-Data-Zone-CRC-Calculation-ApplicationNote.pdf
func crc16(data []byte) uint16 {
	const polynom uint16 = 0x8005
	var crc uint16

	for _, b := range data {
		for bit := 0; bit < 8; bit++ {
			var in byte
			if b&(1<<bit) != 0 {
				in = 1
			}
			out := byte(crc >> 15)
			crc <<= 1
			if in != out {
				crc ^= polynom
			}
		}
	}

	return crc
}
