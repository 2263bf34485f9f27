package monitor

import (
	"fmt"
	"net"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// CounterSource 接口计数器数据源
// 读取指定网卡自启动以来的累计收发字节数，除网卡重置外单调递增
type CounterSource interface {
	ReadCounters(iface string) (sent uint64, recv uint64, err error)
}

// netCounterSource 基于gopsutil的计数器数据源
type netCounterSource struct{}

// NewNetCounterSource 创建系统网卡计数器数据源
func NewNetCounterSource() CounterSource {
	return &netCounterSource{}
}

// ReadCounters 读取指定网卡的累计收发字节数
func (s *netCounterSource) ReadCounters(iface string) (uint64, uint64, error) {
	counters, err := psnet.IOCounters(true)
	if err != nil {
		return 0, 0, fmt.Errorf("读取网卡计数器失败: %w", err)
	}

	for _, c := range counters {
		if c.Name == iface {
			return c.BytesSent, c.BytesRecv, nil
		}
	}

	return 0, 0, fmt.Errorf("网卡 %s 不存在", iface)
}

// DetectDefaultInterface 自动检测默认网卡
// 通过UDP路由探测找到出口网卡，失败时回退到第一个有IPv4地址的非回环网卡
func DetectDefaultInterface() string {
	// 创建一个UDP连接到公网地址，不会真正发送数据，
	// 只是让操作系统根据路由表选择出口网卡对应的本地IP
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		localIP := conn.LocalAddr().(*net.UDPAddr).IP.String()
		conn.Close()

		if ifaces, err := psnet.Interfaces(); err == nil {
			for _, iface := range ifaces {
				for _, addr := range iface.Addrs {
					// 接口地址是CIDR格式，如 192.168.1.5/24
					ip, _, _ := strings.Cut(addr.Addr, "/")
					if ip == localIP {
						return iface.Name
					}
				}
			}
		}
	}

	// 回退方案：找第一个有IPv4地址的非回环网卡
	if ifaces, err := psnet.Interfaces(); err == nil {
		for _, iface := range ifaces {
			if isLoopback(iface) {
				continue
			}
			for _, addr := range iface.Addrs {
				ipStr, _, _ := strings.Cut(addr.Addr, "/")
				if ip := net.ParseIP(ipStr); ip != nil && ip.To4() != nil {
					return iface.Name
				}
			}
		}
	}

	// 所有检测方法都失败，使用常见默认名称
	return "eth0"
}

// isLoopback 判断是否为回环网卡
func isLoopback(iface psnet.InterfaceStat) bool {
	for _, flag := range iface.Flags {
		if flag == "loopback" {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(iface.Name), "lo")
}
