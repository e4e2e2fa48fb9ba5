package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

func (l *Listing) write(writer io.Writer) error {
	if err := writeHeader(writer); err != nil {
		return err
	}

	for index := 0; index < len(l.offsets); {
		off := l.offsets[index]

		if off.label != "" {
			if _, err := fmt.Fprintf(writer, "%s:\n", off.label); err != nil {
				return fmt.Errorf("writing label %s: %w", off.label, err)
			}
		}

		if off.typ == codeOffset {
			if err := l.writeCode(writer, index); err != nil {
				return err
			}
			index += 2
			continue
		}

		count, err := l.writeData(writer, index)
		if err != nil {
			return err
		}
		index += count
	}

	return nil
}

func writeHeader(writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "; Program starts at $%03X in CHIP-8 memory space\n\n", chip8.ProgramStart); err != nil {
		return fmt.Errorf("writing memory space comment: %w", err)
	}
	if _, err := fmt.Fprintf(writer, ".org $%03X\n\n", chip8.ProgramStart); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}
	return nil
}

// writeCode writes the instruction at the given program index.
func (l *Listing) writeCode(writer io.Writer, index int) error {
	off := l.offsets[index]
	line := "    " + l.code(off.instruction)
	comment := l.comment(index, l.program[index:index+2])
	return writeLine(writer, line, comment)
}

// writeData writes a .byte line starting at the given program index and
// returns the number of bytes written. A line ends at the next label or
// instruction.
func (l *Listing) writeData(writer io.Writer, index int) (int, error) {
	end := index + 1
	for end < len(l.offsets) && end-index < dataBytesPerLine {
		off := l.offsets[end]
		if off.typ != dataOffset || off.label != "" {
			break
		}
		end++
	}

	data := l.program[index:end]
	var buf strings.Builder
	fmt.Fprintf(&buf, "    .byte $%02X", data[0])
	for _, b := range data[1:] {
		fmt.Fprintf(&buf, ", $%02X", b)
	}

	if err := writeLine(writer, buf.String(), l.comment(index, data)); err != nil {
		return 0, err
	}
	return len(data), nil
}

// comment returns the comment for bytes at the given program index.
func (l *Listing) comment(index int, data []byte) string {
	var parts []string
	if l.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", chip8.ProgramStart+index))
	}
	if l.options.HexComments {
		hex := make([]string, len(data))
		for i, b := range data {
			hex[i] = fmt.Sprintf("%02X", b)
		}
		parts = append(parts, strings.Join(hex, " "))
	}
	return strings.Join(parts, " ")
}

func writeLine(writer io.Writer, line, comment string) error {
	if comment == "" {
		if _, err := fmt.Fprintf(writer, "%s\n", line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
		return nil
	}

	if _, err := fmt.Fprintf(writer, "%-32s ; %s\n", line, comment); err != nil {
		return fmt.Errorf("writing line with comment: %w", err)
	}
	return nil
}
