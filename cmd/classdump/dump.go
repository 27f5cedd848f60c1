package main

import (
	"flag"
	"fmt"
	"os"

	"classfile/internal/bytestream"
	"classfile/internal/classfile"
)

func cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	path := fs.String("class", "", "path to a .class file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("--class is required")
	}

	cf, err := readClassFile(*path)
	if err != nil {
		return err
	}

	thisName, err := cf.ThisClassName()
	if err != nil {
		return fmt.Errorf("this_class: %w", err)
	}
	superName, err := cf.SuperClassName()
	if err != nil {
		return fmt.Errorf("super_class: %w", err)
	}

	fmt.Printf("%s (version %d.%d, flags %#04x)\n", thisName, cf.MajorVersion, cf.MinorVersion, uint16(cf.AccessFlags))
	if superName != "" {
		fmt.Printf("  extends %s\n", superName)
	}
	fmt.Printf("  constant pool: %d slots\n", cf.Pool.Len())

	for _, f := range cf.Fields {
		fmt.Printf("  field  %-20s %s\n", f.Name, f.Descriptor)
	}
	for _, m := range cf.Methods {
		extra := ""
		if m.Code != nil {
			extra = fmt.Sprintf(" (max_stack=%d max_locals=%d %d bytes)", m.Code.MaxStack, m.Code.MaxLocals, len(m.Code.Code))
		}
		fmt.Printf("  method %-20s %s%s\n", m.Name, m.Descriptor, extra)
	}
	return nil
}

func readClassFile(path string) (*classfile.ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	cf, err := classfile.Read(bytestream.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return cf, nil
}
