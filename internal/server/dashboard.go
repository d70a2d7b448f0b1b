package server

// DashboardHTML is the embedded single-page dashboard for geosim.
// It connects via WebSocket and displays outgoing geomessages in real time.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>geosim</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .status-value.running { color: #3fb950; }
  .status-value.paused { color: #d29922; }
  .status-value.stopped { color: #f85149; }
  .stats {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px; margin-bottom: 20px;
  }
  .stat-card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 16px; text-align: center;
  }
  .stat-number { font-size: 2em; font-weight: 700; }
  .stat-number.sent { color: #3fb950; }
  .stat-number.errors { color: #f85149; }
  .stat-number.cursor { color: #58a6ff; }
  .stat-number.rate { color: #d2a8ff; }
  .stat-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .event-log {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    max-height: 500px; overflow-y: auto;
  }
  .event-header {
    padding: 12px 16px; border-bottom: 1px solid #30363d;
    font-weight: 600; color: #58a6ff; position: sticky; top: 0;
    background: #161b22; display: flex; justify-content: space-between;
  }
  .event-row {
    display: grid; grid-template-columns: 120px 70px 160px 1fr;
    padding: 8px 16px; border-bottom: 1px solid #21262d;
    font-size: 0.85em; align-items: center;
    animation: fadeIn 0.3s ease;
  }
  .event-row:hover { background: #1c2128; }
  .badge {
    display: inline-block; padding: 2px 8px; border-radius: 12px;
    font-size: 0.75em; font-weight: 600;
  }
  .badge.end { background: #3d1f20; color: #f85149; }
  .empty-state {
    text-align: center; padding: 60px 20px; color: #8b949e;
  }
  .empty-state .icon { font-size: 3em; margin-bottom: 10px; }
  .index-cell { color: #d2a8ff; }
  .name-cell { color: #c9d1d9; }
  .fields-cell { color: #8b949e; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
  .time-cell { color: #8b949e; }
  #clear-btn {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 4px 12px; border-radius: 4px; cursor: pointer; font-size: 0.8em;
  }
  #clear-btn:hover { background: #30363d; }
  @keyframes fadeIn { from { opacity: 0; transform: translateY(-4px); } to { opacity: 1; transform: translateY(0); } }
</style>
</head>
<body>
<h1>geosim</h1>
<p class="subtitle">Live geomessage playback viewer</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
  <div class="status-item">
    <span class="status-label">Playback</span>
    <span class="status-value" id="play-status">&mdash;</span>
  </div>
  <div class="status-item">
    <span class="status-label">Messages/sec</span>
    <span class="status-value" id="events-per-sec">0</span>
  </div>
</div>

<div class="stats">
  <div class="stat-card">
    <div class="stat-number cursor" id="stat-cursor">0</div>
    <div class="stat-label">Cursor</div>
  </div>
  <div class="stat-card">
    <div class="stat-number sent" id="stat-sent">0</div>
    <div class="stat-label">Sent</div>
  </div>
  <div class="stat-card">
    <div class="stat-number errors" id="stat-errors">0</div>
    <div class="stat-label">Delivery Errors</div>
  </div>
  <div class="stat-card">
    <div class="stat-number rate" id="stat-interval">&mdash;</div>
    <div class="stat-label">Tick Interval</div>
  </div>
</div>

<div class="event-log">
  <div class="event-header">
    <span>Outgoing Messages</span>
    <button id="clear-btn" onclick="clearEvents()">Clear</button>
  </div>
  <div id="events">
    <div class="empty-state">
      <div class="icon">&#128752;</div>
      <p>Waiting for the simulation to send messages...</p>
    </div>
  </div>
</div>

<script>
let recentTimestamps = [];
const eventsDiv = document.getElementById('events');
const MAX_EVENTS = 200;

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');

  ws.onopen = () => {
    document.getElementById('conn-status').textContent = 'Connected';
    document.getElementById('conn-status').className = 'status-value connected';
  };

  ws.onclose = () => {
    document.getElementById('conn-status').textContent = 'Disconnected';
    document.getElementById('conn-status').className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };

  ws.onmessage = (e) => {
    addEvent(JSON.parse(e.data));
  };
}

function addEvent(event) {
  // Remove empty state on first event.
  const empty = eventsDiv.querySelector('.empty-state');
  if (empty) empty.remove();

  const row = document.createElement('div');
  row.className = 'event-row';
  const time = new Date(event.time).toLocaleTimeString('en-US', {hour12: false, hour:'2-digit', minute:'2-digit', second:'2-digit', fractionalSecondDigits: 3});

  if (event.end) {
    row.innerHTML =
      '<span class="time-cell">' + time + '</span>' +
      '<span></span>' +
      '<span><span class="badge end">END OF STREAM</span></span>' +
      '<span></span>';
  } else {
    const msg = event.message || {};
    const extras = Object.keys(msg)
      .filter(k => k !== '_name' && k !== '_id')
      .map(k => k + '=' + msg[k]).join('  ');
    row.innerHTML =
      '<span class="time-cell">' + time + '</span>' +
      '<span class="index-cell">#' + event.index + '</span>' +
      '<span class="name-cell">' + escHtml(msg['_name'] || msg['_id'] || '') + '</span>' +
      '<span class="fields-cell">' + escHtml(extras) + '</span>';

    const now = Date.now();
    recentTimestamps.push(now);
    recentTimestamps = recentTimestamps.filter(t => now - t < 1000);
    document.getElementById('events-per-sec').textContent = recentTimestamps.length;
  }

  eventsDiv.insertBefore(row, eventsDiv.firstChild);

  // Cap displayed events.
  while (eventsDiv.children.length > MAX_EVENTS) {
    eventsDiv.removeChild(eventsDiv.lastChild);
  }
}

function refreshStatus() {
  fetch('/status').then(r => r.json()).then(s => {
    const el = document.getElementById('play-status');
    el.textContent = s.state;
    el.className = 'status-value ' + s.state;
    document.getElementById('stat-cursor').textContent = s.cursor;
    document.getElementById('stat-sent').textContent = s.sent;
    document.getElementById('stat-errors').textContent = s.delivery_errors;
    document.getElementById('stat-interval').textContent = s.interval_ms + 'ms';
  }).catch(() => {});
}

function clearEvents() {
  recentTimestamps = [];
  eventsDiv.innerHTML = '<div class="empty-state"><div class="icon">&#128752;</div><p>Waiting for the simulation to send messages...</p></div>';
}

function escHtml(s) {
  const d = document.createElement('div');
  d.textContent = s;
  return d.innerHTML;
}

connect();
refreshStatus();
setInterval(refreshStatus, 1000);
</script>
</body>
</html>`
