// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import "time"

const ms = time.Millisecond

// Every script selects the 18 bits per pixel interface format (COLMOD 0x66 or
// 0x06) since pixels are always sent as 3 bytes.

// ILI9341Script initializes an ILI9341.
var ILI9341Script = Encode(
	Command{Op: swReset, Delay: 250 * ms},
	Command{Op: powerA, Args: []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	Command{Op: powerB, Args: []byte{0x00, 0xC1, 0x30}},
	Command{Op: timCtr, Args: []byte{0x03, 0x80, 0x02}},
	Command{Op: dtca, Args: []byte{0x85, 0x00, 0x78}},
	Command{Op: dtcb, Args: []byte{0x00, 0x00}},
	Command{Op: powerSeq, Args: []byte{0x64, 0x03, 0x12, 0x81}},
	Command{Op: prc, Args: []byte{0x20}},
	Command{Op: pwCtr1, Args: []byte{0x23}},       // VRH 4.60V
	Command{Op: pwCtr2, Args: []byte{0x10}},       // SAP, BT
	Command{Op: vmCtr1, Args: []byte{0x3E, 0x28}}, // VMH 4.25V, VML -1.5V
	Command{Op: vmCtr2, Args: []byte{0x86}},
	Command{Op: madCtl, Args: []byte{MadctlMX | MadctlBGR}},
	Command{Op: colMod, Args: []byte{0x66}},
	Command{Op: frmCtr1, Args: []byte{0x00, 0x18}},
	Command{Op: dFunCtr, Args: []byte{0x08, 0x82, 0x27, 0x00}},
	Command{Op: ptlAr, Args: []byte{0x00, 0x00, 0x01, 0x3F}},
	Command{Op: gamma3En, Args: []byte{0x00}},
	Command{Op: gamSet, Args: []byte{0x01}},
	Command{Op: gmCtrP1, Args: []byte{0x0F, 0x31, 0x2B, 0x0C, 0x0E, 0x08, 0x4E, 0xF1, 0x37, 0x07, 0x10, 0x03, 0x0E, 0x09, 0x00}},
	Command{Op: gmCtrN1, Args: []byte{0x00, 0x0E, 0x14, 0x03, 0x11, 0x07, 0x31, 0xC1, 0x48, 0x08, 0x0F, 0x0C, 0x31, 0x36, 0x0F}},
	Command{Op: slpOut, Delay: 120 * ms},
	Command{Op: dispOn, Delay: 120 * ms},
)

// ILI9488Script initializes an ILI9488.
var ILI9488Script = Encode(
	Command{Op: swReset, Delay: 200 * ms},
	Command{Op: gmCtrP1, Args: []byte{0x00, 0x03, 0x09, 0x08, 0x16, 0x0A, 0x3F, 0x78, 0x4C, 0x09, 0x0A, 0x08, 0x16, 0x1A, 0x0F}},
	Command{Op: gmCtrN1, Args: []byte{0x00, 0x16, 0x19, 0x03, 0x0F, 0x05, 0x32, 0x45, 0x46, 0x04, 0x0E, 0x0D, 0x35, 0x37, 0x0F}},
	Command{Op: pwCtr1, Args: []byte{0x17, 0x15}}, // VREG1OUT, VREG2OUT
	Command{Op: pwCtr2, Args: []byte{0x41}},
	Command{Op: vmCtr1, Args: []byte{0x00, 0x12, 0x80}},
	Command{Op: madCtl, Args: []byte{MadctlMX | MadctlBGR}},
	Command{Op: colMod, Args: []byte{0x66}},
	Command{Op: ifMode, Args: []byte{0x80}}, // SDO not used
	Command{Op: frmCtr1, Args: []byte{0xA0}},
	Command{Op: invCtr, Args: []byte{0x02}},
	Command{Op: dFunCtr, Args: []byte{0x02, 0x02}},
	Command{Op: setImage, Args: []byte{0x00}},
	Command{Op: wrCtrlD, Args: []byte{0x28}},
	Command{Op: wrDisBV, Args: []byte{0x7F}},
	Command{Op: prc, Args: []byte{0xA9, 0x51, 0x2C, 0x02}},
	Command{Op: slpOut, Delay: 120 * ms},
	Command{Op: dispOn, Delay: 120 * ms},
)

// ST7789VScript initializes an ST7789V.
var ST7789VScript = Encode(
	Command{Op: swReset, Delay: 150 * ms},
	Command{Op: slpOut, Delay: 120 * ms},
	Command{Op: frmCtr2, Args: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}}, // porch
	Command{Op: gCtrl, Args: []byte{0x45}},
	Command{Op: vcomS, Args: []byte{0x2B}},
	Command{Op: pwCtr1, Args: []byte{0x2C}},
	Command{Op: pwCtr3, Args: []byte{0x01, 0xFF}},
	Command{Op: pwCtr4, Args: []byte{0x11}},
	Command{Op: pwCtr5, Args: []byte{0x20}},
	Command{Op: frCtr2, Args: []byte{0x0F}},
	Command{Op: pwCtrl1, Args: []byte{0xA4, 0xA1}},
	Command{Op: gmCtrP1, Args: []byte{0xD0, 0x00, 0x05, 0x0E, 0x15, 0x0D, 0x37, 0x43, 0x47, 0x09, 0x15, 0x12, 0x16, 0x19}},
	Command{Op: gmCtrN1, Args: []byte{0xD0, 0x00, 0x05, 0x0D, 0x0C, 0x06, 0x2D, 0x44, 0x40, 0x0E, 0x1C, 0x18, 0x16, 0x19}},
	Command{Op: madCtl, Args: []byte{MadctlMX | MadctlBGR}},
	Command{Op: colMod, Args: []byte{0x66}},
	Command{Op: norOn, Delay: 10 * ms},
	Command{Op: dispOn, Delay: 120 * ms},
)

// ST7735Script initializes an ST7735 ("B" type from Adafruit).
var ST7735Script = Encode(
	Command{Op: swReset, Delay: 50 * ms},
	Command{Op: slpOut, Delay: longDelay},
	Command{Op: colMod, Args: []byte{0x06}, Delay: 10 * ms},
	Command{Op: frmCtr1, Args: []byte{0x00, 0x06, 0x03}, Delay: 10 * ms},
	Command{Op: madCtl, Args: []byte{MadctlBGR}},
	Command{Op: disSet5, Args: []byte{0x15, 0x02}},
	Command{Op: invCtr, Args: []byte{0x00}},
	Command{Op: pwCtr1, Args: []byte{0x02, 0x70}, Delay: 10 * ms},
	Command{Op: pwCtr2, Args: []byte{0x05}},
	Command{Op: pwCtr3, Args: []byte{0x01, 0x02}},
	Command{Op: vmCtr1, Args: []byte{0x3C, 0x38}, Delay: 10 * ms},
	Command{Op: pwCtr6, Args: []byte{0x11, 0x15}},
	Command{Op: gmCtrP1, Args: []byte{0x09, 0x16, 0x09, 0x20, 0x21, 0x1B, 0x13, 0x19, 0x17, 0x15, 0x1E, 0x2B, 0x04, 0x05, 0x02, 0x0E}},
	Command{Op: gmCtrN1, Args: []byte{0x0B, 0x14, 0x08, 0x1E, 0x22, 0x1D, 0x18, 0x1E, 0x1B, 0x1A, 0x24, 0x2B, 0x06, 0x06, 0x02, 0x0F}, Delay: 10 * ms},
	Command{Op: caSet, Args: []byte{0x00, 0x02, 0x00, 0x81}},
	Command{Op: paSet, Args: []byte{0x00, 0x02, 0x00, 0x81}},
	Command{Op: norOn, Delay: 10 * ms},
	Command{Op: dispOn, Delay: longDelay},
)

// ST7735R1Script is the first part of the ST7735R initialization, common to
// the red and green tab panels.
var ST7735R1Script = Encode(
	Command{Op: swReset, Delay: 150 * ms},
	Command{Op: slpOut, Delay: longDelay},
	Command{Op: frmCtr1, Args: []byte{0x01, 0x2C, 0x2D}},
	Command{Op: frmCtr2, Args: []byte{0x01, 0x2C, 0x2D}},
	Command{Op: frmCtr3, Args: []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}},
	Command{Op: invCtr, Args: []byte{0x07}},
	Command{Op: pwCtr1, Args: []byte{0xA2, 0x02, 0x84}},
	Command{Op: pwCtr2, Args: []byte{0xC5}},
	Command{Op: pwCtr3, Args: []byte{0x0A, 0x00}},
	Command{Op: pwCtr4, Args: []byte{0x8A, 0x2A}},
	Command{Op: pwCtr5, Args: []byte{0x8A, 0xEE}},
	Command{Op: vmCtr1, Args: []byte{0x0E}},
	Command{Op: invOff},
	Command{Op: madCtl, Args: []byte{0xC8}},
	Command{Op: colMod, Args: []byte{0x06}},
)

// ST7735R2GreenScript is the second part of the ST7735R initialization for
// green tab panels.
var ST7735R2GreenScript = Encode(
	Command{Op: caSet, Args: []byte{0x00, 0x02, 0x00, 0x7F + 0x02}},
	Command{Op: paSet, Args: []byte{0x00, 0x01, 0x00, 0x9F + 0x01}},
)

// ST7735R2RedScript is the second part of the ST7735R initialization for red
// tab panels.
var ST7735R2RedScript = Encode(
	Command{Op: caSet, Args: []byte{0x00, 0x00, 0x00, 0x7F}},
	Command{Op: paSet, Args: []byte{0x00, 0x00, 0x00, 0x9F}},
)

// ST7735R3Script is the last part of the ST7735R initialization.
var ST7735R3Script = Encode(
	Command{Op: gmCtrP1, Args: []byte{0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10}},
	Command{Op: gmCtrN1, Args: []byte{0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10}},
	Command{Op: norOn, Delay: 10 * ms},
	Command{Op: dispOn, Delay: 100 * ms},
)
