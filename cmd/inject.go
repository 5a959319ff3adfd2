package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/robocmd/core/model"
	"github.com/kilianp07/robocmd/infra/logger"
	"github.com/kilianp07/robocmd/infra/mqtt"
)

// injectOpts holds the flags of the inject command.
type injectOpts struct {
	source        string
	x, y, z       float32
	yaw, pitch    float64
	fire          bool
	chassisOnline bool
	gimbalOnline  bool
}

var inject injectOpts

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Publish one synthetic control intent",
	RunE:  injectIntent,
}

func init() {
	f := injectCmd.Flags()
	f.StringVarP(&inject.source, "source", "s", "remote", "source: remote or autonomous")
	f.Float32Var(&inject.x, "x", 0, "chassis x rate")
	f.Float32Var(&inject.y, "y", 0, "chassis y rate")
	f.Float32Var(&inject.z, "z", 0, "chassis rotation rate")
	f.Float64Var(&inject.yaw, "yaw", 0, "gimbal yaw in radians")
	f.Float64Var(&inject.pitch, "pitch", 0, "gimbal pitch in radians")
	f.BoolVar(&inject.fire, "fire", false, "request fire")
	f.BoolVar(&inject.chassisOnline, "chassis-online", true, "chassis link online")
	f.BoolVar(&inject.gimbalOnline, "gimbal-online", true, "gimbal link online")
	rootCmd.AddCommand(injectCmd)
}

// intent builds the ControlIntent described by the flags.
func (o injectOpts) intent() (model.ControlIntent, error) {
	src, err := model.ParseSource(o.source)
	if err != nil {
		return model.ControlIntent{}, err
	}
	return model.ControlIntent{
		Gimbal: model.GimbalCMD{
			Yaw:   model.NewCycleValue(o.yaw),
			Pitch: model.NewCycleValue(o.pitch),
		},
		Chassis:       model.ChassisCMD{X: o.x, Y: o.y, Z: o.z},
		Launcher:      model.LauncherCMD{IsFire: o.fire},
		ChassisOnline: o.chassisOnline,
		GimbalOnline:  o.gimbalOnline,
		Source:        src,
	}, nil
}

func injectIntent(cmd *cobra.Command, args []string) error {
	ci, err := inject.intent()
	if err != nil {
		return err
	}
	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Disconnect()

	if err := mqtt.PublishIntent(client, ci); err != nil {
		return fmt.Errorf("publish intent: %w", err)
	}
	logger.New("inject-command").Infof("injected %s intent", ci.Source)
	return nil
}
