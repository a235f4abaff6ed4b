package web

// siteCSS is the shared page chrome. Page templates append their own rules.
const siteCSS = `
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0a1628;
            color: #ffffff;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
        }
        a { color: inherit; text-decoration: none; }
        .navbar {
            display: flex;
            align-items: center;
            gap: 1rem;
            padding: 0.75rem 1.5rem;
            background: #0f172a;
            border-bottom: 1px solid #1e293b;
        }
        .navbar .brand {
            font-weight: 700;
            font-size: 1.1rem;
            color: #38bdf8;
        }
        .navbar .spacer { flex: 1; }
        .navbar .nav-link {
            color: #94a3b8;
            font-size: 0.875rem;
        }
        .navbar .nav-link:hover { color: #e2e8f0; }
        .navbar .user-name {
            color: #e2e8f0;
            font-size: 0.875rem;
        }
        .navbar .logout-btn {
            background: none;
            border: 1px solid #334155;
            border-radius: 6px;
            color: #94a3b8;
            padding: 0.3rem 0.75rem;
            font-size: 0.8rem;
            cursor: pointer;
        }
        .navbar .logout-btn:hover { color: #e2e8f0; border-color: #475569; }
        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 2rem 1rem;
        }
        .page-error {
            background: #1e293b;
            border: 1px solid #ef4444;
            border-radius: 8px;
            padding: 1rem;
            color: #fca5a5;
            font-size: 0.875rem;
        }
`

// navbarHTML renders the shared top bar. Logged-out visitors get the
// Telegram login widget; its onauth callback must exist globally before
// the widget script loads.
const navbarHTML = `
    <nav class="navbar">
        <a class="brand" href="/">StreamVP</a>
        <div class="spacer"></div>
        {{if .User}}
            {{if .User.IsAdmin}}
            <a class="nav-link" href="/admin">Admin</a>
            <a class="nav-link" href="/admin/upload">Upload</a>
            {{end}}
            <span class="user-name">{{.User.DisplayName}}</span>
            <button class="logout-btn" id="logout-btn">Log out</button>
        {{else}}
            <script async src="https://telegram.org/js/telegram-widget.js?22"
                data-telegram-login="{{.BotName}}"
                data-size="medium"
                data-onauth="onTelegramAuth(user)"
                data-request-access="write"></script>
        {{end}}
    </nav>
`

// navbarJS wires login and logout. onTelegramAuth is the single global the
// widget calls back into; a reload after login re-renders every page with
// the restored session.
const navbarJS = `
        function onTelegramAuth(user) {
            fetch('/api/auth/telegram', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(user)
            }).then(function(res) {
                if (!res.ok) throw new Error('login rejected');
                window.location.reload();
            }).catch(function() {
                alert('Sign-in failed. Please try again.');
            });
        }
        var logoutBtn = document.getElementById('logout-btn');
        if (logoutBtn) {
            logoutBtn.addEventListener('click', function() {
                fetch('/api/auth/logout', { method: 'POST' }).then(function() {
                    window.location.href = '/';
                });
            });
        }
`
