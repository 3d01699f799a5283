// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

// Commands shared by the supported controllers.
const (
	nop      byte = 0x00
	swReset  byte = 0x01
	slpOut   byte = 0x11
	norOn    byte = 0x13
	invOff   byte = 0x20
	invOn    byte = 0x21
	gamSet   byte = 0x26
	dispOff  byte = 0x28
	dispOn   byte = 0x29
	caSet    byte = 0x2A
	paSet    byte = 0x2B
	ramWr    byte = 0x2C
	ramRd    byte = 0x2E
	ptlAr    byte = 0x30
	madCtl   byte = 0x36
	colMod   byte = 0x3A
	wrDisBV  byte = 0x51
	wrCtrlD  byte = 0x53
	ifMode   byte = 0xB0
	frmCtr1  byte = 0xB1
	frmCtr2  byte = 0xB2
	frmCtr3  byte = 0xB3
	invCtr   byte = 0xB4
	disSet5  byte = 0xB6
	dFunCtr  byte = 0xB6
	gCtrl    byte = 0xB7
	vcomS    byte = 0xBB
	pwCtr1   byte = 0xC0
	pwCtr2   byte = 0xC1
	pwCtr3   byte = 0xC2
	pwCtr4   byte = 0xC3
	pwCtr5   byte = 0xC4
	vmCtr1   byte = 0xC5
	frCtr2   byte = 0xC6
	vmCtr2   byte = 0xC7
	powerA   byte = 0xCB
	powerB   byte = 0xCF
	pwCtrl1  byte = 0xD0
	gmCtrP1  byte = 0xE0
	gmCtrN1  byte = 0xE1
	dtca     byte = 0xE8
	setImage byte = 0xE9
	dtcb     byte = 0xEA
	powerSeq byte = 0xED
	timCtr   byte = 0xEF
	gamma3En byte = 0xF2
	prc      byte = 0xF7
	pwCtr6   byte = 0xFC
)

// Exported opcodes, for transports and emulators decoding the command stream.
const (
	CASET  = caSet
	PASET  = paSet
	RAMWR  = ramWr
	RAMRD  = ramRd
	MADCTL = madCtl
)

// MADCTL bits.
const (
	MadctlMY  byte = 0x80 // Row address order, bottom to top.
	MadctlMX  byte = 0x40 // Column address order, right to left.
	MadctlMV  byte = 0x20 // Row/column exchange.
	MadctlML  byte = 0x10 // Vertical refresh order.
	MadctlBGR byte = 0x08 // BGR color filter panel.
	MadctlMH  byte = 0x04 // Horizontal refresh order.
)
