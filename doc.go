// Package uwb is a host-side driver stack for two-way ranging between Decawave DW1000
// ultra-wideband transceivers. The reg package models the chip's register file, dw1000
// drives a single radio over an SPI transport (local bus or UDP tunnel), and ranging
// runs the double-sided TWR exchange between a pair of radios. Commands to run the
// host and radio-board sides are in the cmd directory tree.
package uwb
