package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/kzaag/gdp/cmn"
	"github.com/kzaag/gdp/rdbms"
	"github.com/kzaag/gdp/target"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

type describeOutput struct {
	Detail   rdbms.TableDetail[rdbms.ColumnDetail]   `yaml:"detail"`
	Abstract rdbms.TableDetail[rdbms.ColumnAbstract] `yaml:"abstract"`
}

var describeCmd = &cobra.Command{
	Use:   "describe TABLE...",
	Short: "print the catalog view and the portable view of tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		return target.WithCommand(p, func(c rdbms.Command) error {
			for _, a := range args {
				id, err := rdbms.ParseIdentifier(a)
				if err != nil {
					return err
				}
				var out describeOutput
				if out.Detail, out.Abstract, err = target.Describe(c, id); err != nil {
					return err
				}
				if err = printYAML(out); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "list tables and geometry columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		return target.WithCommand(p, func(c rdbms.Command) error {
			tables, err := rdbms.RemoteTables(c)
			if err != nil {
				return err
			}
			layers, err := rdbms.RemoteGeometryLayers(c)
			if err != nil {
				return err
			}
			return printYAML(map[string][]rdbms.Identifier{"tables": tables, "layers": layers})
		})
	},
}

var rastersCmd = &cobra.Command{
	Use:   "rasters",
	Short: "list raster pyramids from the native catalog and the simple_rasters registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		return target.WithCommand(p, func(c rdbms.Command) error {
			r, err := rdbms.RasterDiscover(c)
			if err != nil {
				return err
			}
			return printYAML(r)
		})
	},
}

var selectArgs struct {
	columns  []string
	rows     int
	geometry string
	box      []float64
}

var selectCmd = &cobra.Command{
	Use:   "select TABLE",
	Short: "print rows of a table, geometry as WKT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := rdbms.ParseIdentifier(args[0])
		if err != nil {
			return err
		}
		opts := rdbms.SelectOptions{
			Columns:  selectArgs.columns,
			Rows:     selectArgs.rows,
			Geometry: selectArgs.geometry,
		}
		switch len(selectArgs.box) {
		case 0:
		case 4:
			b := selectArgs.box
			opts.Box = &rdbms.Envelope{MinX: b[0], MinY: b[1], MaxX: b[2], MaxY: b[3]}
		default:
			return fmt.Errorf("--box takes minx,miny,maxx,maxy, got %d numbers", len(selectArgs.box))
		}

		_, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		return target.WithCommand(p, func(c rdbms.Command) error {
			sys := c.System()
			tbl, err := rdbms.RemoteTableDetail(c, id)
			if err != nil {
				return err
			}
			cols, err := rdbms.DataColumns(sys, tbl, opts.Columns)
			if err != nil {
				return err
			}
			var out []yaml.MapSlice
			err = rdbms.RemoteSelect(c, tbl, opts, func(row []rdbms.Value) error {
				m := make(yaml.MapSlice, len(row))
				for i, v := range row {
					m[i] = yaml.MapItem{Key: cols[i].Name, Value: cellText(sys, cols[i], v)}
				}
				out = append(out, m)
				return nil
			})
			if err != nil {
				return err
			}
			return printYAML(out)
		})
	},
}

// cellText renders geometry as WKT, other blobs as hex and nulls as nil.
func cellText(sys rdbms.Dialect, col rdbms.ColumnDetail, v rdbms.Value) interface{} {
	switch x := v.(type) {
	case rdbms.NullValue, nil:
		return nil
	case rdbms.BlobValue:
		if rdbms.AbstractType(sys, col) == rdbms.Geometry {
			if s, err := rdbms.GeometryWKT(sys, v); err == nil {
				return s
			}
		}
		return hex.EncodeToString(x)
	}
	return rdbms.StringCast(v)
}

func printYAML(v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmn.Stdout, "---\n%s", b)
	return nil
}

func init() {
	f := selectCmd.Flags()
	f.StringSliceVar(&selectArgs.columns, "columns", nil, "columns to read, every column with a portable type when empty")
	f.IntVar(&selectArgs.rows, "rows", 0, "read at most this many rows")
	f.StringVar(&selectArgs.geometry, "geometry", "", "geometry column --box is tested against")
	f.Float64SliceVar(&selectArgs.box, "box", nil, "minx,miny,maxx,maxy")
	rootCmd.AddCommand(describeCmd, layersCmd, rastersCmd, selectCmd)
}
