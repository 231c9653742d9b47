package printer

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
)

// ErrNotFound 表示没找到匹配的 USB 打印设备。
var ErrNotFound = errors.New("没找到打印机")

// Device 是一台已打开的 USB 打印机，实现 io.Writer。
type Device struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	out  *gousb.OutEndpoint
}

// OpenUSB 按产品名遍历 USB 总线找到打印机并占用其第一个 OUT 端点。
// 打印机必须已连接；通常需要 root 权限。
func OpenUSB(product string) (*Device, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(*gousb.DeviceDesc) bool { return true })
	if err != nil {
		// OpenDevices 可能部分失败，已打开的句柄仍要清理
		for _, d := range devs {
			d.Close()
		}
		ctx.Close()
		return nil, fmt.Errorf("枚举 USB 设备失败: %w", err)
	}

	var target *gousb.Device
	for _, d := range devs {
		if target == nil {
			name, err := d.Product()
			if err == nil && name == product {
				target = d
				continue
			}
		}
		d.Close()
	}
	if target == nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: 产品名 %q", ErrNotFound, product)
	}

	if err := target.SetAutoDetach(true); err != nil {
		target.Close()
		ctx.Close()
		return nil, fmt.Errorf("接管内核驱动失败: %w", err)
	}

	intf, done, err := target.DefaultInterface()
	if err != nil {
		target.Close()
		ctx.Close()
		return nil, fmt.Errorf("占用默认接口失败: %w", err)
	}

	var out *gousb.OutEndpoint
	for _, ep := range intf.Setting.Endpoints {
		if ep.Direction == gousb.EndpointDirectionOut {
			out, err = intf.OutEndpoint(ep.Number)
			break
		}
	}
	if err != nil || out == nil {
		done()
		target.Close()
		ctx.Close()
		if err == nil {
			err = fmt.Errorf("设备 %q 没有 OUT 端点", product)
		}
		return nil, err
	}

	return &Device{ctx: ctx, dev: target, done: done, out: out}, nil
}

// Write 把字节流推给打印机。
func (d *Device) Write(p []byte) (int, error) {
	return d.out.Write(p)
}

// Close 释放接口、设备与 USB 上下文。
func (d *Device) Close() error {
	d.done()
	err := d.dev.Close()
	if cerr := d.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}
